package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rewired-gh/bolita/internal/dates"
	"github.com/rewired-gh/bolita/internal/models"
	"github.com/rewired-gh/bolita/internal/storage"
)

func fp(v float64) *float64 { return &v }

func seedStore(t *testing.T) *storage.Store {
	t.Helper()
	store := storage.New(filepath.Join(t.TempDir(), "data.json"), 0, 0, 0)

	sale := models.Sale{ID: "s-1", Date: "14/03/2025", Shift: dates.ShiftDay, TotalSale: 1000, Prize: 50}
	seller := &models.Seller{
		Name:          "Juan",
		UnitPrice:     2,
		CommissionPct: 10,
		Bosses:        []string{"Pedro"},
		Sales:         []models.Sale{sale},
	}
	if err := store.AddSeller(seller); err != nil {
		t.Fatalf("AddSeller failed: %v", err)
	}

	boss, err := store.EnsureBoss("Pedro")
	if err != nil {
		t.Fatalf("EnsureBoss failed: %v", err)
	}
	copy := sale
	copy.ID = "s-1-pedro"
	boss.Sales = append(boss.Sales, copy)

	return store
}

func TestBuildSummary_SellerLine(t *testing.T) {
	store := seedStore(t)

	sum, err := BuildSummary(store, "14/03/2025", dates.ShiftDay)
	if err != nil {
		t.Fatalf("BuildSummary failed: %v", err)
	}
	if len(sum.Sellers) != 1 {
		t.Fatalf("seller lines = %d, want 1", len(sum.Sellers))
	}

	line := sum.Sellers[0]
	if line.TotalSale != 1000 || line.Prize != 50 {
		t.Errorf("gross position = %+v", line)
	}
	// payout = 50 prize points at unit price 2; commission = 10% of 1000.
	if line.PrizePayout != 100 {
		t.Errorf("payout = %.0f, want 100", line.PrizePayout)
	}
	if line.Commission != 100 {
		t.Errorf("commission = %.0f, want 100", line.Commission)
	}
	if line.Net != 800 {
		t.Errorf("net = %.0f, want 800", line.Net)
	}
}

func TestBuildSummary_BossInheritsSellerTerms(t *testing.T) {
	store := seedStore(t)

	sum, err := BuildSummary(store, "14/03/2025", dates.ShiftDay)
	if err != nil {
		t.Fatalf("BuildSummary failed: %v", err)
	}
	if len(sum.Bosses) != 1 {
		t.Fatalf("boss lines = %d, want 1", len(sum.Bosses))
	}

	// No overrides set: the boss copy is priced with Juan's terms.
	line := sum.Bosses[0]
	if line.PrizePayout != 100 || line.Commission != 100 || line.Net != 800 {
		t.Errorf("boss line = %+v, want seller terms applied", line)
	}
}

func TestBuildSummary_BossOverrides(t *testing.T) {
	store := seedStore(t)

	boss, _ := store.GetBoss("Pedro")
	boss.UnitPrice = fp(3)
	boss.CommissionPct = fp(20)

	sum, err := BuildSummary(store, "14/03/2025", dates.ShiftDay)
	if err != nil {
		t.Fatalf("BuildSummary failed: %v", err)
	}

	line := sum.Bosses[0]
	if line.PrizePayout != 150 {
		t.Errorf("payout = %.0f, want 150 (override price 3)", line.PrizePayout)
	}
	if line.Commission != 200 {
		t.Errorf("commission = %.0f, want 200 (override pct 20)", line.Commission)
	}
	if line.Net != 650 {
		t.Errorf("net = %.0f, want 650", line.Net)
	}
}

func TestBuildSummary_OmitsPartiesWithoutSales(t *testing.T) {
	store := seedStore(t)

	if err := store.AddSeller(&models.Seller{Name: "Maria", UnitPrice: 1}); err != nil {
		t.Fatalf("AddSeller failed: %v", err)
	}

	sum, err := BuildSummary(store, "14/03/2025", dates.ShiftNight)
	if err != nil {
		t.Fatalf("BuildSummary failed: %v", err)
	}
	if len(sum.Sellers) != 0 || len(sum.Bosses) != 0 {
		t.Errorf("night summary should be empty: %+v", sum)
	}
}

func TestBuildSummary_NormalizesDate(t *testing.T) {
	store := seedStore(t)

	sum, err := BuildSummary(store, "2025-03-14", dates.ShiftDay)
	if err != nil {
		t.Fatalf("BuildSummary failed: %v", err)
	}
	if len(sum.Sellers) != 1 {
		t.Errorf("ISO-dated lookup missed the sales: %+v", sum)
	}
}

func TestRender(t *testing.T) {
	store := seedStore(t)

	sum, err := BuildSummary(store, "14/03/2025", dates.ShiftDay)
	if err != nil {
		t.Fatalf("BuildSummary failed: %v", err)
	}

	out := Render(store, sum)
	for _, want := range []string{"Juan", "Pedro", "Vendedores", "Jefes", "14/03/2025"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered report missing %q:\n%s", want, out)
		}
	}

	empty, err := BuildSummary(store, "15/03/2025", dates.ShiftDay)
	if err != nil {
		t.Fatalf("BuildSummary failed: %v", err)
	}
	if !strings.Contains(Render(store, empty), "Sin ventas") {
		t.Error("empty report should say so")
	}
}
