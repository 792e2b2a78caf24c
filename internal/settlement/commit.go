package settlement

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rewired-gh/bolita/internal/dates"
	"github.com/rewired-gh/bolita/internal/logger"
	"github.com/rewired-gh/bolita/internal/models"
	"github.com/rewired-gh/bolita/internal/storage"
)

// Committer turns settled submissions into Sale records and propagates a
// copy to each boss the seller reports to. Copies carry their own IDs and
// diverge after creation; repair flows match them by date+shift+amount.
type Committer struct {
	store *storage.Store
}

// NewCommitter creates a Committer over the ledger store.
func NewCommitter(store *storage.Store) *Committer {
	return &Committer{store: store}
}

// checkConsistency enforces the cross-seller rule: once any sale for a
// (date, shift) carries a winning number, every later commit for the same
// pair must carry the identical number.
func (c *Committer) checkConsistency(date string, shift dates.Shift, winning *int) error {
	for _, seller := range c.store.GetAllSellers() {
		for i := range seller.Sales {
			sale := &seller.Sales[i]
			if sale.Date != date || sale.Shift != shift || sale.WinningNumber == nil {
				continue
			}
			if winning == nil || *winning != *sale.WinningNumber {
				return &ConsistencyError{Date: date, Shift: shift, Expected: *sale.WinningNumber}
			}
			return nil
		}
	}
	return nil
}

// Commit creates a Sale from a settled result, appends it to the seller,
// and propagates a copy to each assigned boss. The commit is rejected whole
// on a consistency conflict; no partial state is written.
func (c *Committer) Commit(sellerName, date string, shift dates.Shift, res *Result, winning *int) (*models.Sale, error) {
	date, err := dates.Normalize(date)
	if err != nil {
		return nil, fmt.Errorf("commit date: %w", err)
	}
	if !shift.Valid() {
		return nil, fmt.Errorf("commit shift %q is not dia or noche", shift)
	}

	seller, err := c.store.GetSeller(sellerName)
	if err != nil {
		return nil, err
	}

	if err := c.checkConsistency(date, shift, winning); err != nil {
		return nil, err
	}

	sale := models.Sale{
		ID:            uuid.New().String(),
		Date:          date,
		Shift:         shift,
		TotalSale:     res.TotalSale,
		Prize:         res.TotalPrize,
		WinningNumber: winning,
	}
	if err := sale.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sale: %w", err)
	}

	seller.Sales = append(seller.Sales, sale)

	for _, bossName := range seller.Bosses {
		boss, err := c.store.EnsureBoss(bossName)
		if err != nil {
			return nil, fmt.Errorf("propagate to boss %s: %w", bossName, err)
		}
		bossCopy := sale
		bossCopy.ID = uuid.New().String()
		boss.Sales = append(boss.Sales, bossCopy)
	}

	logger.Info("committed sale for %s (%s %s): sale=%.2f prize=%.2f",
		sellerName, date, shift, sale.TotalSale, sale.Prize)
	return &sale, nil
}

// DeleteSale removes a seller's sale by ID and cascades the deletion to
// the boss copies, matched by date+shift+amount equality.
func (c *Committer) DeleteSale(sellerName, saleID string) error {
	seller, err := c.store.GetSeller(sellerName)
	if err != nil {
		return err
	}

	idx := -1
	for i := range seller.Sales {
		if seller.Sales[i].ID == saleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("sale not found: %s", saleID)
	}
	removed := seller.Sales[idx]
	seller.Sales = append(seller.Sales[:idx], seller.Sales[idx+1:]...)

	for _, bossName := range seller.Bosses {
		boss, err := c.store.GetBoss(bossName)
		if err != nil {
			continue
		}
		for i := range boss.Sales {
			if boss.Sales[i].SameCommit(&removed) {
				boss.Sales = append(boss.Sales[:i], boss.Sales[i+1:]...)
				break
			}
		}
	}

	logger.Info("deleted sale %s for %s (%s %s)", saleID, sellerName, removed.Date, removed.Shift)
	return nil
}
