package funds

import (
	"testing"

	"github.com/rewired-gh/bolita/internal/dates"
	"github.com/rewired-gh/bolita/internal/models"
)

func fp(v float64) *float64 { return &v }

func TestCurrentPrevious_Fallbacks(t *testing.T) {
	seller := &models.Seller{Name: "Juan"}

	// Nothing recorded anywhere: zero.
	if got := Current(seller, dates.ShiftDay); got != 0 {
		t.Errorf("Current on empty seller = %.0f, want 0", got)
	}

	// Only the legacy flat field: both reads fall back to it.
	seller.LegacyFund = 300
	if got := Current(seller, dates.ShiftNight); got != 300 {
		t.Errorf("Current legacy fallback = %.0f, want 300", got)
	}
	if got := Previous(seller, dates.ShiftNight); got != 300 {
		t.Errorf("Previous legacy fallback = %.0f, want 300", got)
	}

	// The per-shift view wins once populated.
	seller.Funds.Set(dates.ShiftDay, models.FundPair{Previous: 100, Current: 500})
	if got := Current(seller, dates.ShiftDay); got != 500 {
		t.Errorf("Current = %.0f, want 500", got)
	}
	if got := Previous(seller, dates.ShiftDay); got != 100 {
		t.Errorf("Previous = %.0f, want 100", got)
	}
}

func TestRecordUpdate_CarryForwardDayToNight(t *testing.T) {
	seller := &models.Seller{Name: "Juan"}

	if err := RecordUpdate(seller, "14/03/2025", dates.ShiftDay, 500); err != nil {
		t.Fatalf("RecordUpdate failed: %v", err)
	}

	// The night shift inherits the day's current as its previous fund.
	pair, ok := Historical(seller, "14/03/2025", dates.ShiftNight)
	if !ok {
		t.Fatal("Historical found nothing for the night shift")
	}
	if pair.Previous != 500 {
		t.Errorf("night previous = %.0f, want 500", pair.Previous)
	}
}

func TestRecordUpdate_CarryForwardNightToNextDay(t *testing.T) {
	seller := &models.Seller{Name: "Juan"}

	if err := RecordUpdate(seller, "14/03/2025", dates.ShiftNight, 750); err != nil {
		t.Fatalf("RecordUpdate failed: %v", err)
	}

	pair, ok := Historical(seller, "15/03/2025", dates.ShiftDay)
	if !ok {
		t.Fatal("Historical found nothing for the next day")
	}
	if pair.Previous != 750 {
		t.Errorf("next-day previous = %.0f, want 750", pair.Previous)
	}
}

func TestRecordUpdate_ForwardPropagation(t *testing.T) {
	seller := &models.Seller{Name: "Juan"}
	seller.FundHistory = []models.FundRecord{
		{Date: "14/03/2025", Shift: dates.ShiftNight},
		{Date: "15/03/2025", Shift: dates.ShiftDay, Current: fp(800)},
		{Date: "15/03/2025", Shift: dates.ShiftNight},
	}

	// A retroactive edit ripples forward as each successor's previous fund,
	// stopping after the first independently confirmed current.
	if err := RecordUpdate(seller, "14/03/2025", dates.ShiftDay, 500); err != nil {
		t.Fatalf("RecordUpdate failed: %v", err)
	}

	night14 := findTestRecord(t, seller, "14/03/2025", dates.ShiftNight)
	if night14.Previous == nil || *night14.Previous != 500 {
		t.Errorf("14 night previous = %v, want 500", night14.Previous)
	}

	day15 := findTestRecord(t, seller, "15/03/2025", dates.ShiftDay)
	if day15.Previous == nil || *day15.Previous != 500 {
		t.Errorf("15 day previous = %v, want 500", day15.Previous)
	}
	if day15.Current == nil || *day15.Current != 800 {
		t.Errorf("15 day current = %v, want untouched 800", day15.Current)
	}

	// Past the confirmed record, the edit must not reach.
	night15 := findTestRecord(t, seller, "15/03/2025", dates.ShiftNight)
	if night15.Previous != nil {
		t.Errorf("15 night previous = %v, want untouched nil", night15.Previous)
	}
}

func findTestRecord(t *testing.T, seller *models.Seller, date string, shift dates.Shift) *models.FundRecord {
	t.Helper()
	for i := range seller.FundHistory {
		rec := &seller.FundHistory[i]
		if rec.Date == date && rec.Shift == shift {
			return rec
		}
	}
	t.Fatalf("no record for %s %s", date, shift)
	return nil
}

func TestRecordUpdate_Upsert(t *testing.T) {
	seller := &models.Seller{Name: "Juan"}

	if err := RecordUpdate(seller, "14/03/2025", dates.ShiftDay, 500); err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	if err := RecordUpdate(seller, "14/03/2025", dates.ShiftDay, 600); err != nil {
		t.Fatalf("second update failed: %v", err)
	}

	if len(seller.FundHistory) != 1 {
		t.Fatalf("history length = %d, want 1 (upsert, not append)", len(seller.FundHistory))
	}
	if *seller.FundHistory[0].Current != 600 {
		t.Errorf("current = %.0f, want 600", *seller.FundHistory[0].Current)
	}
}

func TestRecordUpdate_RejectsBadInput(t *testing.T) {
	seller := &models.Seller{Name: "Juan"}

	if err := RecordUpdate(seller, "garbage", dates.ShiftDay, 500); err == nil {
		t.Error("bad date should fail")
	}
	if err := RecordUpdate(seller, "14/03/2025", "tarde", 500); err == nil {
		t.Error("bad shift should fail")
	}
}

func TestHistorical_OrderIndependence(t *testing.T) {
	// The same set of confirmed records must reconcile identically however
	// they were inserted.
	build := func(order []int) *models.Seller {
		seller := &models.Seller{Name: "Juan"}
		updates := []struct {
			date  string
			shift dates.Shift
			value float64
		}{
			{"13/03/2025", dates.ShiftNight, 200},
			{"14/03/2025", dates.ShiftDay, 500},
			{"14/03/2025", dates.ShiftNight, 750},
		}
		for _, i := range order {
			u := updates[i]
			if err := RecordUpdate(seller, u.date, u.shift, u.value); err != nil {
				t.Fatalf("RecordUpdate failed: %v", err)
			}
		}
		return seller
	}

	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 0, 2}, {2, 0, 1}}
	for _, order := range orders {
		seller := build(order)

		pair, ok := Historical(seller, "14/03/2025", dates.ShiftDay)
		if !ok {
			t.Fatalf("order %v: day lookup found nothing", order)
		}
		if pair.Previous != 200 || pair.Current != 500 {
			t.Errorf("order %v: day pair = %+v, want {200 500}", order, pair)
		}

		pair, ok = Historical(seller, "14/03/2025", dates.ShiftNight)
		if !ok {
			t.Fatalf("order %v: night lookup found nothing", order)
		}
		if pair.Previous != 500 || pair.Current != 750 {
			t.Errorf("order %v: night pair = %+v, want {500 750}", order, pair)
		}
	}
}

func TestHistorical_NearestEarlierFallback(t *testing.T) {
	seller := &models.Seller{Name: "Juan"}
	if err := RecordUpdate(seller, "10/03/2025", dates.ShiftNight, 400); err != nil {
		t.Fatalf("RecordUpdate failed: %v", err)
	}

	// No record and no adjacent predecessor: the nearest earlier confirmed
	// current serves as the previous fund.
	pair, ok := Historical(seller, "14/03/2025", dates.ShiftDay)
	if !ok {
		t.Fatal("Historical found nothing")
	}
	if pair.Previous != 400 {
		t.Errorf("previous = %.0f, want 400", pair.Previous)
	}
	if pair.Current != 0 {
		t.Errorf("current = %.0f, want 0 (never confirmed)", pair.Current)
	}
}

func TestHistorical_NothingApplicable(t *testing.T) {
	seller := &models.Seller{Name: "Juan"}
	if _, ok := Historical(seller, "14/03/2025", dates.ShiftDay); ok {
		t.Error("empty history should report not found")
	}

	if err := RecordUpdate(seller, "20/03/2025", dates.ShiftDay, 100); err != nil {
		t.Fatalf("RecordUpdate failed: %v", err)
	}
	// Only later records exist; nothing earlier to fall back on.
	if _, ok := Historical(seller, "14/03/2025", dates.ShiftDay); ok {
		t.Error("lookup before all records should report not found")
	}
}

func TestRecordUpdate_SyncsLiveFundsToday(t *testing.T) {
	seller := &models.Seller{Name: "Juan"}
	today := dates.Today()

	if err := RecordUpdate(seller, today, dates.ShiftDay, 900); err != nil {
		t.Fatalf("RecordUpdate failed: %v", err)
	}
	if got := Current(seller, dates.ShiftDay); got != 900 {
		t.Errorf("live current = %.0f, want 900", got)
	}
}
