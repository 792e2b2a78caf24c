package dates

import "testing"

func TestParseShift(t *testing.T) {
	tests := []struct {
		input   string
		want    Shift
		wantErr bool
	}{
		{"dia", ShiftDay, false},
		{"día", ShiftDay, false},
		{"DIA", ShiftDay, false},
		{"d", ShiftDay, false},
		{"noche", ShiftNight, false},
		{" Noche ", ShiftNight, false},
		{"n", ShiftNight, false},
		{"tarde", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseShift(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseShift(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseShift(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseShift(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"14/03/2025", "14/03/2025", false},
		{"2025-03-14", "14/03/2025", false},
		{"5/3/2025", "05/03/2025", false},
		{" 14/03/2025 ", "14/03/2025", false},
		{"not-a-date", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Normalize(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		dateA  string
		shiftA Shift
		dateB  string
		shiftB Shift
		want   int
	}{
		{"same pair", "14/03/2025", ShiftDay, "14/03/2025", ShiftDay, 0},
		{"day before night", "14/03/2025", ShiftDay, "14/03/2025", ShiftNight, -1},
		{"night after day", "14/03/2025", ShiftNight, "14/03/2025", ShiftDay, 1},
		{"earlier date", "13/03/2025", ShiftNight, "14/03/2025", ShiftDay, -1},
		{"mixed layouts", "2025-03-14", ShiftDay, "14/03/2025", ShiftDay, 0},
	}

	for _, tt := range tests {
		got := Compare(tt.dateA, tt.shiftA, tt.dateB, tt.shiftB)
		if sign(got) != tt.want {
			t.Errorf("%s: Compare = %d, want sign %d", tt.name, got, tt.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestPrevNextDay(t *testing.T) {
	prev, err := PrevDay("01/03/2025")
	if err != nil {
		t.Fatalf("PrevDay failed: %v", err)
	}
	if prev != "28/02/2025" {
		t.Errorf("PrevDay(01/03/2025) = %q, want 28/02/2025", prev)
	}

	next, err := NextDay("31/12/2025")
	if err != nil {
		t.Fatalf("NextDay failed: %v", err)
	}
	if next != "01/01/2026" {
		t.Errorf("NextDay(31/12/2025) = %q, want 01/01/2026", next)
	}

	if _, err := PrevDay("garbage"); err == nil {
		t.Error("PrevDay(garbage) expected error")
	}
}
