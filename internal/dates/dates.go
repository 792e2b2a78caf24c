// Package dates centralizes date and shift handling for the ledger.
//
// The canonical display format is DD/MM/YYYY. Operator input and persisted
// blobs may also carry ISO dates (YYYY-MM-DD); every component that compares
// or stores a date goes through Normalize first and never compares raw
// strings. A (date, shift) pair is totally ordered: dates chronologically,
// with the day shift before the night shift on the same date.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Shift identifies one of the two daily settlement shifts.
type Shift string

const (
	ShiftDay   Shift = "dia"
	ShiftNight Shift = "noche"
)

// ParseShift normalizes a shift string, accepting common operator spellings.
func ParseShift(s string) (Shift, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dia", "día", "day", "d":
		return ShiftDay, nil
	case "noche", "night", "n":
		return ShiftNight, nil
	}
	return "", fmt.Errorf("unknown shift %q (want dia or noche)", s)
}

// Valid reports whether the shift is one of the two known values.
func (s Shift) Valid() bool {
	return s == ShiftDay || s == ShiftNight
}

// rank orders shifts within a single date: day settles before night.
func (s Shift) rank() int {
	if s == ShiftNight {
		return 1
	}
	return 0
}

// layouts accepted by Normalize and Parse, tried in order.
var layouts = []string{
	"02/01/2006",
	"2006-01-02",
	"2/1/2006",
}

// Parse converts a date string in any accepted layout to a time.Time.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Format renders a time.Time in the canonical DD/MM/YYYY form.
func Format(t time.Time) string {
	return t.Format("02/01/2006")
}

// Normalize converts any accepted date string to the canonical DD/MM/YYYY
// form. It returns an error rather than passing malformed input through.
func Normalize(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(t), nil
}

// Today returns the current date in canonical form.
func Today() string {
	return Format(time.Now())
}

// Compare orders two (date, shift) pairs. It returns a negative value when
// the first pair settles earlier, zero when equal, positive when later.
// Both dates must already be parseable; unparseable dates sort first so a
// corrupt record surfaces at the head of a sorted history.
func Compare(dateA string, shiftA Shift, dateB string, shiftB Shift) int {
	ta, errA := Parse(dateA)
	tb, errB := Parse(dateB)
	if errA != nil || errB != nil {
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return -1
		default:
			return 1
		}
	}
	if ta.Before(tb) {
		return -1
	}
	if ta.After(tb) {
		return 1
	}
	return shiftA.rank() - shiftB.rank()
}

// PrevDay returns the canonical date one calendar day before the given date.
func PrevDay(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, -1)), nil
}

// NextDay returns the canonical date one calendar day after the given date.
func NextDay(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, 1)), nil
}
