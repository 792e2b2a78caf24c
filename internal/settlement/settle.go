// Package settlement drives the classifier and expanders over a full
// operator submission, accumulating sale and prize totals and per-number
// exposure, and commits the outcome as a Sale propagated to the seller's
// bosses.
//
// Parse failures are data, not errors: lines that match no pattern or fail
// to expand are collected with their original text for operator correction
// and never silently dropped. Only a missing winning number or a
// cross-seller consistency conflict aborts processing.
package settlement

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rewired-gh/bolita/internal/logger"
	"github.com/rewired-gh/bolita/internal/normalizer"
	"github.com/rewired-gh/bolita/internal/wager"
)

// DefaultExposureThreshold is the per-number stake above which a number is
// flagged for operator warning. The flag is informational; settlement
// completes and the sale may still be committed.
const DefaultExposureThreshold = 5000

// LineOutcome is one successfully settled line. Result is nil for the
// literal sms separator, which passes through untouched.
type LineOutcome struct {
	Raw    string
	Type   wager.Type
	Result *wager.Result
}

// InvalidLine is a line that failed classification or expansion, retained
// verbatim for operator review.
type InvalidLine struct {
	Raw    string
	Reason string
}

// Result aggregates a full submission.
type Result struct {
	Valid       []LineOutcome
	Invalid     []InvalidLine
	TotalSale   float64
	TotalPrize  float64
	Exposure    map[int]float64
	Overexposed []int
}

// Settler settles submissions against a winning number.
type Settler struct {
	norm      *normalizer.Normalizer
	threshold float64
}

// New creates a Settler. A threshold of zero or below falls back to
// DefaultExposureThreshold.
func New(norm *normalizer.Normalizer, threshold float64) *Settler {
	if threshold <= 0 {
		threshold = DefaultExposureThreshold
	}
	return &Settler{norm: norm, threshold: threshold}
}

// TOTAL-style submissions carry operator-precomputed totals instead of
// wager lines and settle without a winning number.
var (
	totalRe  = regexp.MustCompile(`(?im)^[ \t]*total[:=\- ]+[$ ]*(\d+(?:[.,]\d+)?)`)
	premioRe = regexp.MustCompile(`(?im)^[ \t]*premio[:=\- ]+[$ ]*(\d+(?:[.,]\d+)?)`)
)

// parseAmount reads an operator-typed amount, tolerating a comma decimal.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return v
}

// Settle processes every line of a submission. The winning number may be
// 0–100 (100 meaning "00") or nil; nil is only accepted for TOTAL-style
// submissions, otherwise settlement is blocked with ErrMissingWinningNumber.
func (s *Settler) Settle(raw string, winning *int) (*Result, error) {
	if winning != nil && (*winning < 0 || *winning > 100) {
		return nil, fmt.Errorf("winning number %d out of range 0-100", *winning)
	}

	if m := totalRe.FindStringSubmatch(raw); m != nil {
		res := &Result{Exposure: make(map[int]float64)}
		res.TotalSale = parseAmount(m[1])
		if pm := premioRe.FindStringSubmatch(raw); pm != nil {
			res.TotalPrize = parseAmount(pm[1])
		}
		logger.Debug("settled TOTAL-style submission: sale=%.2f prize=%.2f", res.TotalSale, res.TotalPrize)
		return res, nil
	}

	if winning == nil {
		return nil, ErrMissingWinningNumber
	}

	res := &Result{Exposure: make(map[int]float64)}
	for _, line := range s.norm.Lines(raw) {
		typ, err := wager.Classify(line)
		if err != nil {
			res.Invalid = append(res.Invalid, InvalidLine{Raw: line, Reason: err.Error()})
			continue
		}
		if typ == wager.TypeSMS {
			res.Valid = append(res.Valid, LineOutcome{Raw: line, Type: typ})
			continue
		}

		expanded, err := wager.Expand(typ, line, winning)
		if err != nil {
			res.Invalid = append(res.Invalid, InvalidLine{Raw: line, Reason: err.Error()})
			continue
		}

		res.Valid = append(res.Valid, LineOutcome{Raw: line, Type: typ, Result: expanded})
		res.TotalSale += expanded.TotalStake
		res.TotalPrize += expanded.Prize
		for n, amt := range expanded.Numbers {
			res.Exposure[n] += amt
		}
	}

	for n, amt := range res.Exposure {
		if amt > s.threshold {
			res.Overexposed = append(res.Overexposed, n)
		}
	}
	sort.Ints(res.Overexposed)
	if len(res.Overexposed) > 0 {
		logger.Warn("numbers over exposure threshold %.0f: %v", s.threshold, res.Overexposed)
	}

	return res, nil
}
