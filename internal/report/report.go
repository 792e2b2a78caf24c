// Package report aggregates committed sales into per-seller and per-boss
// day summaries with commission and prize-payout math.
package report

import (
	"fmt"
	"strings"

	"github.com/rewired-gh/bolita/internal/dates"
	"github.com/rewired-gh/bolita/internal/funds"
	"github.com/rewired-gh/bolita/internal/models"
	"github.com/rewired-gh/bolita/internal/storage"
)

// Line is one party's settled position for a date and shift. PrizePayout is
// prize points priced at the party's unit price; Commission is the
// percentage cut of the gross sale; Net is what the party owes upward.
type Line struct {
	Name        string
	TotalSale   float64
	Prize       float64
	PrizePayout float64
	Commission  float64
	Net         float64
}

// Summary is a full day report for one shift.
type Summary struct {
	Date    string
	Shift   dates.Shift
	Sellers []Line
	Bosses  []Line
}

// sumSales totals committed sales matching the date and shift.
func sumSales(sales []models.Sale, date string, shift dates.Shift) (totalSale, prize float64, found bool) {
	for i := range sales {
		s := &sales[i]
		if s.Date != date || s.Shift != shift {
			continue
		}
		totalSale += s.TotalSale
		prize += s.Prize
		found = true
	}
	return totalSale, prize, found
}

// makeLine applies the pricing terms to a gross position.
func makeLine(name string, totalSale, prize, unitPrice, commissionPct float64) Line {
	payout := prize * unitPrice
	commission := totalSale * commissionPct / 100
	return Line{
		Name:        name,
		TotalSale:   totalSale,
		Prize:       prize,
		PrizePayout: payout,
		Commission:  commission,
		Net:         totalSale - commission - payout,
	}
}

// BuildSummary assembles the day report for a date and shift. Sellers use
// their own pricing terms; a boss line reprices its propagated copies with
// the boss overrides where set, falling back to each contributing seller's
// terms otherwise. Parties with no sales for the pair are omitted.
func BuildSummary(store *storage.Store, date string, shift dates.Shift) (*Summary, error) {
	date, err := dates.Normalize(date)
	if err != nil {
		return nil, fmt.Errorf("report date: %w", err)
	}
	if !shift.Valid() {
		return nil, fmt.Errorf("report shift %q is not dia or noche", shift)
	}

	sum := &Summary{Date: date, Shift: shift}

	for _, seller := range store.GetAllSellers() {
		totalSale, prize, found := sumSales(seller.Sales, date, shift)
		if !found {
			continue
		}
		sum.Sellers = append(sum.Sellers, makeLine(seller.Name, totalSale, prize, seller.UnitPrice, seller.CommissionPct))
	}

	for _, boss := range store.GetAllBosses() {
		line, found := bossLine(store, boss, date, shift)
		if !found {
			continue
		}
		sum.Bosses = append(sum.Bosses, line)
	}

	return sum, nil
}

// bossLine totals a boss's propagated copies. Each copy is matched back to
// its originating seller by date+shift+amount so unoverridden terms come
// from the right party.
func bossLine(store *storage.Store, boss *models.Boss, date string, shift dates.Shift) (Line, bool) {
	var line Line
	line.Name = boss.Name
	found := false

	for i := range boss.Sales {
		sale := &boss.Sales[i]
		if sale.Date != date || sale.Shift != shift {
			continue
		}
		found = true

		unitPrice, commissionPct := originTerms(store, boss.Name, sale)
		if boss.UnitPrice != nil {
			unitPrice = *boss.UnitPrice
		}
		if boss.CommissionPct != nil {
			commissionPct = *boss.CommissionPct
		}

		part := makeLine(boss.Name, sale.TotalSale, sale.Prize, unitPrice, commissionPct)
		line.TotalSale += part.TotalSale
		line.Prize += part.Prize
		line.PrizePayout += part.PrizePayout
		line.Commission += part.Commission
		line.Net += part.Net
	}

	return line, found
}

// originTerms finds the seller whose sale was propagated as this boss copy
// and returns that seller's pricing terms. Falls back to neutral terms when
// the origin cannot be matched, such as after a one-sided manual edit.
func originTerms(store *storage.Store, bossName string, copy *models.Sale) (unitPrice, commissionPct float64) {
	for _, seller := range store.GetAllSellers() {
		if !hasBoss(seller, bossName) {
			continue
		}
		for i := range seller.Sales {
			if seller.Sales[i].SameCommit(copy) {
				return seller.UnitPrice, seller.CommissionPct
			}
		}
	}
	return 1, 0
}

func hasBoss(seller *models.Seller, bossName string) bool {
	for _, b := range seller.Bosses {
		if b == bossName {
			return true
		}
	}
	return false
}

// Render prints a summary as an operator-facing plain-text table, with each
// seller's fund position appended when available.
func Render(store *storage.Store, sum *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Reporte %s (%s)\n", sum.Date, sum.Shift)

	if len(sum.Sellers) > 0 {
		b.WriteString("\nVendedores:\n")
		for _, line := range sum.Sellers {
			fmt.Fprintf(&b, "  %-15s venta=%9.2f premio=%9.2f pago=%9.2f comision=%8.2f neto=%9.2f",
				line.Name, line.TotalSale, line.Prize, line.PrizePayout, line.Commission, line.Net)
			if seller, err := store.GetSeller(line.Name); err == nil {
				if pair, ok := funds.Historical(seller, sum.Date, sum.Shift); ok {
					fmt.Fprintf(&b, " fondo=%9.2f", pair.Current)
				}
			}
			b.WriteByte('\n')
		}
	}

	if len(sum.Bosses) > 0 {
		b.WriteString("\nJefes:\n")
		for _, line := range sum.Bosses {
			fmt.Fprintf(&b, "  %-15s venta=%9.2f premio=%9.2f pago=%9.2f comision=%8.2f neto=%9.2f\n",
				line.Name, line.TotalSale, line.Prize, line.PrizePayout, line.Commission, line.Net)
		}
	}

	if len(sum.Sellers) == 0 && len(sum.Bosses) == 0 {
		b.WriteString("\nSin ventas registradas.\n")
	}

	return b.String()
}
