// Package storage holds the ledger state — sellers, bosses, and the rolling
// daily snapshot log — in memory with JSON file persistence.
//
// Persistence is whole-object overwrite of a freshly serialized snapshot,
// never incremental mutation of the stored blob: writes go to a temp file
// first and are renamed into place so a crash can't leave a torn file.
// Legacy blob shapes (bare-number funds, the flat fondo field) are migrated
// once at load time; read paths never see them.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rewired-gh/bolita/internal/dates"
	"github.com/rewired-gh/bolita/internal/models"
)

// DefaultRetentionDays caps the rolling daily snapshot log.
const DefaultRetentionDays = 15

// DaySnapshot is one dated entry of the history log: a full copy of the
// ledger as it stood at snapshot time.
type DaySnapshot struct {
	Sellers   []*models.Seller `json:"vendedores"`
	Bosses    []*models.Boss   `json:"jefes"`
	Date      string           `json:"fecha"`
	Timestamp time.Time        `json:"timestamp"`
}

// historyLog mirrors the persisted historialLoteria blob.
type historyLog struct {
	Dates       map[string]DaySnapshot `json:"fechas"`
	LastUpdated time.Time              `json:"ultimaActualizacion"`
}

// persistenceFile is the on-disk layout. The top-level keys mirror the
// ledger's original blob names.
type persistenceFile struct {
	Version string           `json:"version"`
	SavedAt time.Time        `json:"saved_at"`
	Sellers []*models.Seller `json:"vendedores"`
	Bosses  []*models.Boss   `json:"jefes"`
	History historyLog       `json:"historialLoteria"`
	Latest  *DaySnapshot     `json:"datosLoteria,omitempty"`
}

// Store provides thread-safe in-memory ledger state with file persistence.
// Sellers and bosses keep their operator-assigned order, so they live in
// slices and are found by name.
type Store struct {
	sellers []*models.Seller
	bosses  []*models.Boss
	history historyLog
	latest  *DaySnapshot
	mu      sync.RWMutex

	filePath      string
	retentionDays int
	filePerms     os.FileMode
	dirPerms      os.FileMode
}

// New creates a Store persisting to filePath. An empty path falls back to
// an OS-appropriate tmp directory; a retention of zero or below falls back
// to DefaultRetentionDays.
func New(filePath string, retentionDays int, filePerms, dirPerms os.FileMode) *Store {
	if filePath == "" {
		filePath = filepath.Join(os.TempDir(), "bolita", "data.json")
	}
	if retentionDays < 1 {
		retentionDays = DefaultRetentionDays
	}
	if filePerms == 0 {
		filePerms = 0o600
	}
	if dirPerms == 0 {
		dirPerms = 0o700
	}
	return &Store{
		history:       historyLog{Dates: make(map[string]DaySnapshot)},
		filePath:      filePath,
		retentionDays: retentionDays,
		filePerms:     filePerms,
		dirPerms:      dirPerms,
	}
}

// AddSeller appends a new seller.
func (s *Store) AddSeller(seller *models.Seller) error {
	if err := seller.Validate(); err != nil {
		return fmt.Errorf("invalid seller: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findSeller(seller.Name) != nil {
		return fmt.Errorf("seller already exists: %s", seller.Name)
	}
	s.sellers = append(s.sellers, seller)
	return nil
}

// GetSeller retrieves a seller by name.
func (s *Store) GetSeller(name string) (*models.Seller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if seller := s.findSeller(name); seller != nil {
		return seller, nil
	}
	return nil, fmt.Errorf("seller not found: %s", name)
}

// GetAllSellers returns every seller in operator order.
func (s *Store) GetAllSellers() []*models.Seller {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Seller, len(s.sellers))
	copy(out, s.sellers)
	return out
}

// DeleteSeller removes a seller by name.
func (s *Store) DeleteSeller(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, seller := range s.sellers {
		if seller.Name == name {
			s.sellers = append(s.sellers[:i], s.sellers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("seller not found: %s", name)
}

// AddBoss appends a new boss.
func (s *Store) AddBoss(boss *models.Boss) error {
	if err := boss.Validate(); err != nil {
		return fmt.Errorf("invalid boss: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findBoss(boss.Name) != nil {
		return fmt.Errorf("boss already exists: %s", boss.Name)
	}
	s.bosses = append(s.bosses, boss)
	return nil
}

// GetBoss retrieves a boss by name.
func (s *Store) GetBoss(name string) (*models.Boss, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if boss := s.findBoss(name); boss != nil {
		return boss, nil
	}
	return nil, fmt.Errorf("boss not found: %s", name)
}

// EnsureBoss returns the boss by name, creating an empty one when a seller
// references a boss that has not been registered yet.
func (s *Store) EnsureBoss(name string) (*models.Boss, error) {
	if name == "" {
		return nil, fmt.Errorf("boss name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if boss := s.findBoss(name); boss != nil {
		return boss, nil
	}
	boss := &models.Boss{Name: name}
	s.bosses = append(s.bosses, boss)
	return boss, nil
}

// GetAllBosses returns every boss in operator order.
func (s *Store) GetAllBosses() []*models.Boss {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Boss, len(s.bosses))
	copy(out, s.bosses)
	return out
}

// findSeller and findBoss assume the caller holds the lock.
func (s *Store) findSeller(name string) *models.Seller {
	for _, seller := range s.sellers {
		if seller.Name == name {
			return seller
		}
	}
	return nil
}

func (s *Store) findBoss(name string) *models.Boss {
	for _, boss := range s.bosses {
		if boss.Name == name {
			return boss
		}
	}
	return nil
}

// AddMovement records a manual fund movement against a seller.
func (s *Store) AddMovement(sellerName string, mv models.Movement) error {
	if err := mv.Validate(); err != nil {
		return fmt.Errorf("invalid movement: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seller := s.findSeller(sellerName)
	if seller == nil {
		return fmt.Errorf("seller not found: %s", sellerName)
	}
	seller.Movements = append(seller.Movements, mv)
	return nil
}

// DeleteMovement removes a seller's movement by ID.
func (s *Store) DeleteMovement(sellerName, movementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seller := s.findSeller(sellerName)
	if seller == nil {
		return fmt.Errorf("seller not found: %s", sellerName)
	}
	for i := range seller.Movements {
		if seller.Movements[i].ID == movementID {
			seller.Movements = append(seller.Movements[:i], seller.Movements[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("movement not found: %s", movementID)
}

// SnapshotDay records the current ledger as the latest full snapshot and as
// the history entry for the given date, then evicts entries beyond the
// retention cap.
func (s *Store) SnapshotDay(date string) error {
	date, err := dates.Normalize(date)
	if err != nil {
		return fmt.Errorf("snapshot date: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := DaySnapshot{
		Sellers:   cloneSellers(s.sellers),
		Bosses:    cloneBosses(s.bosses),
		Date:      date,
		Timestamp: time.Now(),
	}
	s.latest = &snap
	s.history.Dates[date] = snap
	s.history.LastUpdated = snap.Timestamp
	s.evictHistory()
	return nil
}

// Latest returns the most recent full snapshot, or nil before the first
// SnapshotDay.
func (s *Store) Latest() *DaySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// HistoryDates returns the snapshot log's dates in chronological order.
func (s *Store) HistoryDates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedHistoryDates()
}

// GetHistorySnapshot returns the history entry for a date.
func (s *Store) GetHistorySnapshot(date string) (DaySnapshot, error) {
	date, err := dates.Normalize(date)
	if err != nil {
		return DaySnapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.history.Dates[date]
	if !ok {
		return DaySnapshot{}, fmt.Errorf("no snapshot for %s", date)
	}
	return snap, nil
}

// evictHistory deletes the oldest entries beyond the retention cap. Caller
// holds the lock.
func (s *Store) evictHistory() {
	excess := len(s.history.Dates) - s.retentionDays
	if excess <= 0 {
		return
	}
	dateKeys := s.sortedHistoryDates()
	for _, key := range dateKeys[:excess] {
		delete(s.history.Dates, key)
	}
}

// sortedHistoryDates returns history keys oldest first. Caller holds at
// least a read lock.
func (s *Store) sortedHistoryDates() []string {
	keys := make([]string, 0, len(s.history.Dates))
	for key := range s.history.Dates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return dates.Compare(keys[i], dates.ShiftDay, keys[j], dates.ShiftDay) < 0
	})
	return keys
}

// cloneSellers deep-copies sellers through JSON so snapshot entries never
// alias live state. Serialization cost is acceptable at ledger sizes.
func cloneSellers(in []*models.Seller) []*models.Seller {
	data, err := json.Marshal(in)
	if err != nil {
		return nil
	}
	var out []*models.Seller
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func cloneBosses(in []*models.Boss) []*models.Boss {
	data, err := json.Marshal(in)
	if err != nil {
		return nil
	}
	var out []*models.Boss
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// Save persists the full ledger state to file atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, s.dirPerms); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data := persistenceFile{
		Version: "2.0",
		SavedAt: time.Now(),
		Sellers: s.sellers,
		Bosses:  s.bosses,
		History: s.history,
		Latest:  s.latest,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempPath := s.filePath + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, s.filePerms); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tempPath, s.filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Load restores ledger state from file. A missing file starts fresh.
// Legacy representations are migrated here, once, so every read path sees
// the current shape.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tempPath := s.filePath + ".tmp"
	if _, err := os.Stat(tempPath); err == nil {
		_ = os.Remove(tempPath)
	}

	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return nil
	}

	jsonData, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data persistenceFile
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	s.sellers = data.Sellers
	s.bosses = data.Bosses
	s.history = data.History
	if s.history.Dates == nil {
		s.history.Dates = make(map[string]DaySnapshot)
	}
	s.latest = data.Latest

	s.migrateLegacyFunds()
	s.evictHistory()
	return nil
}

// migrateLegacyFunds folds the flat fondo field of pre-shift-split blobs
// into the per-shift view. Bare-number fund pairs are already handled by
// FundPair.UnmarshalJSON during decode.
func (s *Store) migrateLegacyFunds() {
	for _, seller := range s.sellers {
		empty := models.FundsByShift{}
		if seller.Funds == empty && seller.LegacyFund != 0 {
			seller.Funds.Day.Current = seller.LegacyFund
			seller.Funds.Night.Current = seller.LegacyFund
			seller.LegacyFund = 0
		}
		for i := range seller.FundHistory {
			if d, err := dates.Normalize(seller.FundHistory[i].Date); err == nil {
				seller.FundHistory[i].Date = d
			}
		}
	}
}
