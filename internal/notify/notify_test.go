package notify

import (
	"strings"
	"testing"

	"github.com/rewired-gh/bolita/internal/dates"
	"github.com/rewired-gh/bolita/internal/settlement"
)

func TestFormatSettlement(t *testing.T) {
	winning := 100
	res := &settlement.Result{
		TotalSale:  1700,
		TotalPrize: 100,
		Exposure:   map[int]float64{5: 6000},
		Overexposed: []int{5},
		Invalid: []settlement.InvalidLine{
			{Raw: "hola buenas", Reason: "unrecognized wager form"},
		},
	}

	msg := FormatSettlement("Juan", "14/03/2025", dates.ShiftDay, res, &winning)

	for _, want := range []string{
		"Juan",
		"1700\\.00",
		"100\\.00",
		"sobreexpuestos",
		"hola buenas",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	// 100 is the "00" sentinel; operators read it as 00.
	if !strings.Contains(msg, "*00*") {
		t.Errorf("winning 100 should render as 00:\n%s", msg)
	}
}

func TestFormatSettlement_NoWinning(t *testing.T) {
	res := &settlement.Result{TotalSale: 500, TotalPrize: 120}
	msg := FormatSettlement("Juan", "14/03/2025", dates.ShiftNight, res, nil)

	if strings.Contains(msg, "ganador") {
		t.Errorf("message should omit the winning line:\n%s", msg)
	}
	if !strings.Contains(msg, "500\\.00") {
		t.Errorf("message missing sale total:\n%s", msg)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got := escapeMarkdownV2("a-b.c(d)!")
	want := `a\-b\.c\(d\)\!`
	if got != want {
		t.Errorf("escape = %q, want %q", got, want)
	}

	if got := escapeMarkdownV2("plain text"); got != "plain text" {
		t.Errorf("plain text altered: %q", got)
	}
}

func TestWinningLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "00"},
		{100, "00"},
		{5, "05"},
		{42, "42"},
	}
	for _, tt := range tests {
		if got := winningLabel(tt.n); got != tt.want {
			t.Errorf("winningLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
