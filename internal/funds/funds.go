// Package funds derives and repairs a seller's cash-fund state across the
// day/night settlement shifts.
//
// The history log only records a current fund when an operator explicitly
// confirms one; not every shift is confirmed every day. The previous fund is
// therefore derived, never stored authoritatively: a night's previous fund
// is the same date's day current, and a day's previous fund is the prior
// date's night current. When a current fund is edited retroactively, the
// correction ripples forward through chronologically later records without
// the operator revisiting each one, stopping at the first record whose own
// current was independently confirmed — that value becomes the next
// carry-forward seed.
//
// All functions are synchronous, pure computations over the seller's
// in-memory history; persistence is the caller's concern.
package funds

import (
	"fmt"
	"sort"
	"time"

	"github.com/rewired-gh/bolita/internal/dates"
	"github.com/rewired-gh/bolita/internal/logger"
	"github.com/rewired-gh/bolita/internal/models"
)

// Current returns the live current fund for a shift, falling back through
// the per-shift view, then the legacy flat field, then zero. A missing
// record is recovered locally and never surfaced as an error.
func Current(seller *models.Seller, shift dates.Shift) float64 {
	pair := seller.Funds.Get(shift)
	if pair != (models.FundPair{}) {
		return pair.Current
	}
	return seller.LegacyFund
}

// Previous returns the live previous fund for a shift with the same
// fallback chain as Current.
func Previous(seller *models.Seller, shift dates.Shift) float64 {
	pair := seller.Funds.Get(shift)
	if pair != (models.FundPair{}) {
		return pair.Previous
	}
	return seller.LegacyFund
}

// findRecord returns the history record for an exact (date, shift), or nil.
func findRecord(seller *models.Seller, date string, shift dates.Shift) *models.FundRecord {
	for i := range seller.FundHistory {
		rec := &seller.FundHistory[i]
		if rec.Shift == shift && sameDate(rec.Date, date) {
			return rec
		}
	}
	return nil
}

// sameDate compares two date strings through the shared normalizer; raw
// string comparison would miss equivalent spellings.
func sameDate(a, b string) bool {
	na, errA := dates.Normalize(a)
	nb, errB := dates.Normalize(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return na == nb
}

// carryForward derives the previous fund for (date, shift) from the
// predecessor record under the day→night, night→next-day rule. Returns
// false when the predecessor is absent or has no confirmed current.
func carryForward(seller *models.Seller, date string, shift dates.Shift) (float64, bool) {
	var prevDate string
	var prevShift dates.Shift
	if shift == dates.ShiftNight {
		prevDate, prevShift = date, dates.ShiftDay
	} else {
		d, err := dates.PrevDay(date)
		if err != nil {
			return 0, false
		}
		prevDate, prevShift = d, dates.ShiftNight
	}

	rec := findRecord(seller, prevDate, prevShift)
	if rec == nil || rec.Current == nil {
		return 0, false
	}
	return *rec.Current, true
}

// Historical resolves the fund pair for any (date, shift): the exact record
// when one exists, the carry-forward derivation when the predecessor is
// confirmed, and otherwise the chronologically nearest earlier record's
// current (or its previous, when current was never confirmed). The second
// return is false when the history holds nothing applicable.
func Historical(seller *models.Seller, date string, shift dates.Shift) (models.FundPair, bool) {
	date, err := dates.Normalize(date)
	if err != nil {
		return models.FundPair{}, false
	}

	if rec := findRecord(seller, date, shift); rec != nil {
		pair := models.FundPair{}
		if rec.Previous != nil {
			pair.Previous = *rec.Previous
		} else if prev, ok := carryForward(seller, date, shift); ok {
			pair.Previous = prev
		}
		if rec.Current != nil {
			pair.Current = *rec.Current
		}
		return pair, true
	}

	if prev, ok := carryForward(seller, date, shift); ok {
		return models.FundPair{Previous: prev}, true
	}

	if rec := nearestEarlier(seller, date, shift); rec != nil {
		pair := models.FundPair{}
		if rec.Current != nil {
			pair.Previous = *rec.Current
		} else if rec.Previous != nil {
			pair.Previous = *rec.Previous
		}
		return pair, true
	}

	return models.FundPair{}, false
}

// nearestEarlier returns the latest record strictly before (date, shift).
func nearestEarlier(seller *models.Seller, date string, shift dates.Shift) *models.FundRecord {
	var best *models.FundRecord
	for i := range seller.FundHistory {
		rec := &seller.FundHistory[i]
		if dates.Compare(rec.Date, rec.Shift, date, shift) >= 0 {
			continue
		}
		if best == nil || dates.Compare(rec.Date, rec.Shift, best.Date, best.Shift) > 0 {
			best = rec
		}
	}
	return best
}

// sortHistory orders the history chronologically, day before night on equal
// dates. The log is written out of order by repair flows, so every walk
// re-sorts rather than trusting stored order.
func sortHistory(seller *models.Seller) {
	sort.SliceStable(seller.FundHistory, func(i, j int) bool {
		a, b := &seller.FundHistory[i], &seller.FundHistory[j]
		return dates.Compare(a.Date, a.Shift, b.Date, b.Shift) < 0
	})
}

// RecordUpdate upserts the (date, shift) record with a newly confirmed
// current fund, then propagates the value forward as the previous fund of
// each chronological successor, stopping after the first successor whose
// own current is independently confirmed. When the edited date is today the
// live per-shift view is updated in lockstep.
func RecordUpdate(seller *models.Seller, date string, shift dates.Shift, newCurrent float64) error {
	date, err := dates.Normalize(date)
	if err != nil {
		return fmt.Errorf("fund update date: %w", err)
	}
	if !shift.Valid() {
		return fmt.Errorf("fund update shift %q is not dia or noche", shift)
	}

	rec := findRecord(seller, date, shift)
	if rec == nil {
		seller.FundHistory = append(seller.FundHistory, models.FundRecord{
			Date:  date,
			Shift: shift,
		})
		rec = &seller.FundHistory[len(seller.FundHistory)-1]
	}
	rec.Date = date
	current := newCurrent
	rec.Current = &current
	if prev, ok := carryForward(seller, date, shift); ok {
		p := prev
		rec.Previous = &p
	}
	rec.UpdatedAt = time.Now()

	sortHistory(seller)

	// rec may have moved during the sort; find its position again.
	idx := -1
	for i := range seller.FundHistory {
		r := &seller.FundHistory[i]
		if r.Shift == shift && r.Date == date {
			idx = i
			break
		}
	}

	seed := newCurrent
	for i := idx + 1; i < len(seller.FundHistory); i++ {
		next := &seller.FundHistory[i]
		p := seed
		next.Previous = &p
		next.UpdatedAt = time.Now()
		if next.Current != nil {
			// Independently confirmed; later records already derive from it.
			break
		}
	}

	if date == dates.Today() {
		pair := seller.Funds.Get(shift)
		pair.Current = newCurrent
		if rec := findRecord(seller, date, shift); rec != nil && rec.Previous != nil {
			pair.Previous = *rec.Previous
		}
		seller.Funds.Set(shift, pair)
	}

	logger.Debug("fund update for %s (%s %s): current=%.2f", seller.Name, date, shift, newCurrent)
	return nil
}
