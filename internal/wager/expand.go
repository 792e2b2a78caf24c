package wager

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Result is the expansion of one classified line: the total amount staked,
// the prize owed against the winning number, and the explicit per-number
// stakes. TotalStake always equals the sum of the Numbers values.
type Result struct {
	TotalStake float64
	Prize      float64
	Numbers    map[int]float64
}

// merge folds another expansion into this one, summing stakes and prizes
// and accumulating per-number amounts.
func (r *Result) merge(other *Result) {
	r.TotalStake += other.TotalStake
	r.Prize += other.Prize
	for n, amt := range other.Numbers {
		r.Numbers[n] += amt
	}
}

// Canonical folds the 100 sentinel ("00") to the internal 0 representation.
// All prize comparisons and number-map keys use the 0–99 space.
func Canonical(n int) int {
	if n == 100 {
		return 0
	}
	return n
}

// parejaNumbers is the fixed doubles set, with 0 standing for "00".
var parejaNumbers = [...]int{0, 11, 22, 33, 44, 55, 66, 77, 88, 99}

var errMalformed = errors.New("malformed wager line")

var numberRe = regexp.MustCompile(`\d+`)

// extractNumbers returns every integer in the line, in order.
func extractNumbers(line string) []int {
	matches := numberRe.FindAllString(line, -1)
	nums := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// Expand computes the stake and prize for a classified line. The winning
// number may be nil (no draw result yet), in which case the prize is zero.
// A non-nil error means the line matched a classifier pattern but could not
// be expanded; callers treat it as an invalid line.
func Expand(t Type, line string, winning *int) (*Result, error) {
	switch t {
	case TypeLinea:
		return expandLinea(line, winning)
	case TypeLineaConY:
		return expandLineaConY(line, winning)
	case TypeDecena:
		return expandDecena(line, winning)
	case TypeTerminal:
		return expandTerminal(line, winning)
	case TypeTerminalMultiple:
		return expandTerminalMultiple(line, winning)
	case TypeTerminalAl:
		return expandTerminalAl(line, winning)
	case TypePareja, TypeParejaAl:
		return expandPareja(line, winning)
	case TypeNumeroAlNumero, TypeRango:
		return expandRange(line, winning)
	case TypeListaComa, TypeListaCon, TypeTresNumeros, TypeNumero, TypeGenerico:
		return expandGeneric(line, winning)
	}
	return nil, fmt.Errorf("no expander for type %q", t)
}

// headAmount splits the line's numbers into heads and the trailing stake
// amount.
func headAmount(line string) ([]int, float64, error) {
	nums := extractNumbers(line)
	if len(nums) < 2 {
		return nil, 0, fmt.Errorf("%w: need a number and an amount", errMalformed)
	}
	return nums[:len(nums)-1], float64(nums[len(nums)-1]), nil
}

// decadeStart returns the first number of the decade containing head.
func decadeStart(head int) int {
	return (Canonical(head) / 10) * 10
}

// specialContiguousPair reports whether a two-head linea is one of the pairs
// that stays a contiguous range even though the heads are a decade or more
// apart. Exactly (0,10) and (0,20) are special-cased; whether the exception
// generalizes to other decade boundaries is an open product question, so the
// literal pairs are preserved.
func specialContiguousPair(lo, hi int) bool {
	return lo == 0 && (hi == 10 || hi == 20)
}

// expandContiguous stakes amount on every number in [start, end]. Ranges are
// never wrapped past 99: numbers above 99 are dropped from the map, and the
// prize check still uses the requested bounds.
func expandContiguous(start, end int, amount float64, winning *int) *Result {
	res := &Result{Numbers: make(map[int]float64)}
	for v := start; v <= end && v <= 99; v++ {
		res.Numbers[v] += amount
		res.TotalStake += amount
	}
	if winning != nil {
		w := Canonical(*winning)
		if w >= start && w <= end {
			res.Prize = amount
		}
	}
	return res
}

// expandLinea handles the one- and two-head linea forms. A single head
// covers its ten-number range head..head+9. Two heads a decade or more
// apart cover the two full decades containing each head instead of a
// contiguous span; the (0,10) and (0,20) pairs are exempt from that rule
// and stay contiguous.
func expandLinea(line string, winning *int) (*Result, error) {
	heads, amount, err := headAmount(line)
	if err != nil {
		return nil, err
	}
	if len(heads) > 2 {
		return nil, fmt.Errorf("%w: linea takes at most two heads", errMalformed)
	}
	for _, h := range heads {
		if h > 100 {
			return nil, fmt.Errorf("%w: head %d out of range", errMalformed, h)
		}
	}

	if len(heads) == 2 {
		lo, hi := Canonical(heads[0]), Canonical(heads[1])
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi-lo >= 10 && !specialContiguousPair(lo, hi) {
			return expandDoubleDecade(lo, hi, amount, winning), nil
		}
		return expandContiguous(lo, hi, amount, winning), nil
	}

	start := Canonical(heads[0])
	return expandContiguous(start, start+9, amount, winning), nil
}

// expandDoubleDecade stakes amount on the two full decades containing each
// head. The prize is a single unit when the winning number falls in either
// decade.
func expandDoubleDecade(h1, h2 int, amount float64, winning *int) *Result {
	res := &Result{Numbers: make(map[int]float64)}
	for _, d0 := range []int{decadeStart(h1), decadeStart(h2)} {
		for v := d0; v <= d0+9 && v <= 99; v++ {
			res.Numbers[v] += amount
			res.TotalStake += amount
		}
	}
	if winning != nil {
		w := Canonical(*winning)
		if _, ok := res.Numbers[w]; ok {
			res.Prize = amount
		}
	}
	return res
}

// expandLineaConY explodes the multi-head linea into one single-head linea
// per head and merges the results: stakes and prizes sum, number maps
// accumulate.
func expandLineaConY(line string, winning *int) (*Result, error) {
	heads, amount, err := headAmount(line)
	if err != nil {
		return nil, err
	}
	total := &Result{Numbers: make(map[int]float64)}
	for _, h := range heads {
		if h > 100 {
			return nil, fmt.Errorf("%w: head %d out of range", errMalformed, h)
		}
		start := Canonical(h)
		total.merge(expandContiguous(start, start+9, amount, winning))
	}
	return total, nil
}

// expandDecena covers the full decade containing the head, regardless of
// where in the decade the head sits.
func expandDecena(line string, winning *int) (*Result, error) {
	heads, amount, err := headAmount(line)
	if err != nil {
		return nil, err
	}
	if heads[0] > 100 {
		return nil, fmt.Errorf("%w: head %d out of range", errMalformed, heads[0])
	}
	d0 := decadeStart(heads[0])
	return expandContiguous(d0, d0+9, amount, winning), nil
}

// expandTerminalDigit stakes amount on every number whose last digit equals
// the head's, ten numbers in all (0 stands for "00").
func expandTerminalDigit(head int, amount float64, winning *int) *Result {
	digit := Canonical(head) % 10
	res := &Result{Numbers: make(map[int]float64)}
	for v := digit; v <= 99; v += 10 {
		res.Numbers[v] += amount
		res.TotalStake += amount
	}
	if winning != nil && Canonical(*winning)%10 == digit {
		res.Prize = amount
	}
	return res
}

func expandTerminal(line string, winning *int) (*Result, error) {
	heads, amount, err := headAmount(line)
	if err != nil {
		return nil, err
	}
	if heads[0] > 100 {
		return nil, fmt.Errorf("%w: head %d out of range", errMalformed, heads[0])
	}
	return expandTerminalDigit(heads[0], amount, winning), nil
}

// expandTerminalMultiple settles one terminal per head digit; a winning
// number matching several heads pays one prize unit per match.
func expandTerminalMultiple(line string, winning *int) (*Result, error) {
	heads, amount, err := headAmount(line)
	if err != nil {
		return nil, err
	}
	total := &Result{Numbers: make(map[int]float64)}
	for _, h := range heads {
		if h > 100 {
			return nil, fmt.Errorf("%w: head %d out of range", errMalformed, h)
		}
		total.merge(expandTerminalDigit(h, amount, winning))
	}
	return total, nil
}

// expandTerminalAl covers the explicit "terminal A al B" range, stepping +10
// from the start number up to the end bound. An end of 100 lands on the "00"
// slot, which is keyed as 0.
func expandTerminalAl(line string, winning *int) (*Result, error) {
	nums := extractNumbers(line)
	if len(nums) < 3 {
		return nil, fmt.Errorf("%w: terminal-al needs start, end, and amount", errMalformed)
	}
	start, end := nums[0], nums[1]
	amount := float64(nums[len(nums)-1])
	if start > end {
		return nil, fmt.Errorf("%w: range %d-%d is reversed", errMalformed, start, end)
	}
	if end > 100 {
		return nil, fmt.Errorf("%w: end %d out of range", errMalformed, end)
	}

	res := &Result{Numbers: make(map[int]float64)}
	for v := start; v <= end; v += 10 {
		res.Numbers[v%100] += amount
		res.TotalStake += amount
	}
	if winning != nil {
		if _, ok := res.Numbers[Canonical(*winning)]; ok {
			res.Prize = amount
		}
	}
	return res, nil
}

// expandPareja stakes the fixed doubles set; the last number in the line is
// the per-number amount.
func expandPareja(line string, winning *int) (*Result, error) {
	nums := extractNumbers(line)
	if len(nums) == 0 {
		return nil, fmt.Errorf("%w: pareja needs an amount", errMalformed)
	}
	amount := float64(nums[len(nums)-1])

	res := &Result{Numbers: make(map[int]float64, len(parejaNumbers))}
	for _, v := range parejaNumbers {
		res.Numbers[v] += amount
		res.TotalStake += amount
	}
	if winning != nil {
		if _, ok := res.Numbers[Canonical(*winning)]; ok {
			res.Prize = amount
		}
	}
	return res, nil
}

// expandRange covers the explicit "A al B con M" and bare "A-B con M" range
// forms. A start of 100 ("00") with a smaller end wraps to 0..end; any other
// reversed range is rejected.
func expandRange(line string, winning *int) (*Result, error) {
	nums := extractNumbers(line)
	if len(nums) < 3 {
		return nil, fmt.Errorf("%w: range needs start, end, and amount", errMalformed)
	}
	start, end := nums[0], nums[1]
	amount := float64(nums[len(nums)-1])
	if start > 100 || end > 100 {
		return nil, fmt.Errorf("%w: range %d-%d out of bounds", errMalformed, start, end)
	}
	if start == 100 && end < 100 {
		start = 0
	}
	if start > end {
		return nil, fmt.Errorf("%w: range %d-%d is reversed", errMalformed, start, end)
	}

	res := &Result{Numbers: make(map[int]float64)}
	for v := start; v <= end; v++ {
		res.Numbers[v%100] += amount
		res.TotalStake += amount
	}
	if winning != nil {
		if _, ok := res.Numbers[Canonical(*winning)]; ok {
			res.Prize = amount
		}
	}
	return res, nil
}

// expandGeneric is the fallback list form: every number but the last is a
// head staked with the trailing amount. Duplicate heads accumulate, and a
// winning number matching a duplicated head pays one prize unit per copy.
func expandGeneric(line string, winning *int) (*Result, error) {
	heads, amount, err := headAmount(line)
	if err != nil {
		return nil, err
	}

	res := &Result{Numbers: make(map[int]float64, len(heads))}
	w := -1
	if winning != nil {
		w = Canonical(*winning)
	}
	for _, h := range heads {
		if h > 100 {
			return nil, fmt.Errorf("%w: head %d out of range", errMalformed, h)
		}
		n := Canonical(h)
		res.Numbers[n] += amount
		res.TotalStake += amount
		if n == w {
			res.Prize += amount
		}
	}
	return res, nil
}
