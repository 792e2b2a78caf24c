package models

import (
	"encoding/json"
	"testing"

	"github.com/rewired-gh/bolita/internal/dates"
)

func TestSale_Validate(t *testing.T) {
	valid := Sale{
		ID:        "sale-1",
		Date:      "14/03/2025",
		Shift:     dates.ShiftDay,
		TotalSale: 1000,
		Prize:     100,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid sale rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Sale)
	}{
		{"empty ID", func(s *Sale) { s.ID = "" }},
		{"bad date", func(s *Sale) { s.Date = "garbage" }},
		{"bad shift", func(s *Sale) { s.Shift = "tarde" }},
		{"negative sale", func(s *Sale) { s.TotalSale = -1 }},
		{"negative prize", func(s *Sale) { s.Prize = -1 }},
		{"winning out of range", func(s *Sale) { n := 101; s.WinningNumber = &n }},
	}

	for _, tt := range tests {
		s := valid
		tt.mutate(&s)
		if err := s.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestSale_SameCommit(t *testing.T) {
	a := Sale{ID: "a", Date: "14/03/2025", Shift: dates.ShiftDay, TotalSale: 1000, Prize: 100}
	b := Sale{ID: "b", Date: "14/03/2025", Shift: dates.ShiftDay, TotalSale: 1000, Prize: 100}
	if !a.SameCommit(&b) {
		t.Error("propagated twin with different ID should match")
	}

	c := b
	c.Prize = 200
	if a.SameCommit(&c) {
		t.Error("different prize should not match")
	}

	d := b
	d.Shift = dates.ShiftNight
	if a.SameCommit(&d) {
		t.Error("different shift should not match")
	}
}

func TestFundPair_UnmarshalJSON(t *testing.T) {
	var pair FundPair
	if err := json.Unmarshal([]byte(`{"anterior": 100, "actual": 350}`), &pair); err != nil {
		t.Fatalf("pair object failed: %v", err)
	}
	if pair.Previous != 100 || pair.Current != 350 {
		t.Errorf("pair = %+v, want {100 350}", pair)
	}

	// Legacy blobs stored a bare number where the pair lives now.
	var legacy FundPair
	if err := json.Unmarshal([]byte(`350`), &legacy); err != nil {
		t.Fatalf("bare number failed: %v", err)
	}
	if legacy.Previous != 0 || legacy.Current != 350 {
		t.Errorf("legacy pair = %+v, want {0 350}", legacy)
	}

	if err := json.Unmarshal([]byte(`"x"`), &pair); err == nil {
		t.Error("string payload should fail")
	}
}

func TestFundsByShift_GetSet(t *testing.T) {
	var f FundsByShift
	f.Set(dates.ShiftDay, FundPair{Previous: 1, Current: 2})
	f.Set(dates.ShiftNight, FundPair{Previous: 3, Current: 4})

	if got := f.Get(dates.ShiftDay); got.Current != 2 {
		t.Errorf("day pair = %+v", got)
	}
	if got := f.Get(dates.ShiftNight); got.Current != 4 {
		t.Errorf("night pair = %+v", got)
	}
}

func TestSeller_Validate(t *testing.T) {
	s := Seller{Name: "Juan", UnitPrice: 2, CommissionPct: 10}
	if err := s.Validate(); err != nil {
		t.Fatalf("valid seller rejected: %v", err)
	}

	s.Name = ""
	if err := s.Validate(); err == nil {
		t.Error("empty name should fail")
	}

	s.Name = "Juan"
	s.CommissionPct = 120
	if err := s.Validate(); err == nil {
		t.Error("commission over 100 should fail")
	}
}

func TestMovement_Validate(t *testing.T) {
	m := Movement{ID: "m-1", Type: MovementIn, Amount: 50, Date: "14/03/2025", Shift: dates.ShiftDay}
	if err := m.Validate(); err != nil {
		t.Fatalf("valid movement rejected: %v", err)
	}

	m.Type = "retiro"
	if err := m.Validate(); err == nil {
		t.Error("unknown type should fail")
	}

	m.Type = MovementOut
	m.Amount = 0
	if err := m.Validate(); err == nil {
		t.Error("zero amount should fail")
	}
}
