// Package models defines the core domain entities for the bolita ledger:
// sellers, bosses, committed sales, manual fund movements, and the per-shift
// fund records the reconciliation engine operates on.
//
// JSON tags use the Spanish field names of the persisted blobs (vendedores,
// ventas, fondosPorHorario, historialFondos, movimientos) so snapshots written
// by earlier versions of the ledger load unchanged.
//
// Terminology (matching the operation's own naming):
//   - Venta: one committed sale record for a seller on a date+shift.
//   - Fondo: the cash fund a seller carries, tracked per shift.
//   - Jefe: a boss aggregating the sales of one or more sellers.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rewired-gh/bolita/internal/dates"
)

// WinningSentinel is the persisted representation of the "00" number.
// The UI and stored blobs use 100 for "00"; engine code folds it to 0 at
// the boundary and works in 0–99 internally.
const WinningSentinel = 100

// Sale is one committed wager record. A structurally identical copy is
// propagated to every boss the seller reports to; copies diverge after
// creation and are matched by date+shift+amount in repair flows, not by ID.
type Sale struct {
	ID            string      `json:"id"`
	Date          string      `json:"fecha"` // canonical DD/MM/YYYY
	Shift         dates.Shift `json:"horario"`
	TotalSale     float64     `json:"venta"`
	Prize         float64     `json:"premio"`
	WinningNumber *int        `json:"numeroGanador,omitempty"` // 0–100, 100 = "00"
}

// Validate checks that all sale fields are valid.
func (s *Sale) Validate() error {
	if s.ID == "" {
		return errors.New("sale ID must not be empty")
	}
	if _, err := dates.Parse(s.Date); err != nil {
		return fmt.Errorf("sale date: %w", err)
	}
	if !s.Shift.Valid() {
		return fmt.Errorf("sale shift %q is not dia or noche", s.Shift)
	}
	if s.TotalSale < 0 {
		return errors.New("total sale must not be negative")
	}
	if s.Prize < 0 {
		return errors.New("prize must not be negative")
	}
	if s.WinningNumber != nil && (*s.WinningNumber < 0 || *s.WinningNumber > WinningSentinel) {
		return fmt.Errorf("winning number %d out of range 0-100", *s.WinningNumber)
	}
	return nil
}

// SameCommit reports whether another sale is the propagated twin of this one:
// same date, shift, and amounts. Boss copies carry their own IDs, so repair
// and cascade flows match by value.
func (s *Sale) SameCommit(other *Sale) bool {
	return s.Date == other.Date &&
		s.Shift == other.Shift &&
		s.TotalSale == other.TotalSale &&
		s.Prize == other.Prize
}

// MovementType classifies a manual fund adjustment.
type MovementType string

const (
	MovementIn  MovementType = "entrada"
	MovementOut MovementType = "salida"
)

// Movement is a manual fund in/out entry recorded against a seller.
type Movement struct {
	ID     string       `json:"id"`
	Type   MovementType `json:"tipo"`
	Amount float64      `json:"monto"`
	Date   string       `json:"fecha"`
	Shift  dates.Shift  `json:"horario"`
	Note   string       `json:"nota,omitempty"`
}

// Validate checks that all movement fields are valid.
func (m *Movement) Validate() error {
	if m.ID == "" {
		return errors.New("movement ID must not be empty")
	}
	if m.Type != MovementIn && m.Type != MovementOut {
		return fmt.Errorf("movement type %q is not entrada or salida", m.Type)
	}
	if m.Amount <= 0 {
		return errors.New("movement amount must be positive")
	}
	if _, err := dates.Parse(m.Date); err != nil {
		return fmt.Errorf("movement date: %w", err)
	}
	if !m.Shift.Valid() {
		return fmt.Errorf("movement shift %q is not dia or noche", m.Shift)
	}
	return nil
}

// FundPair is the previous/current fund state for one shift.
//
// Older snapshots stored a bare number where a pair now lives; UnmarshalJSON
// migrates that shape once at load time (the number becomes Current), so read
// paths never see the legacy representation.
type FundPair struct {
	Previous float64 `json:"anterior"`
	Current  float64 `json:"actual"`
}

// UnmarshalJSON accepts either the pair object or a legacy bare number.
func (f *FundPair) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.Previous = 0
		f.Current = n
		return nil
	}
	type plain FundPair
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = FundPair(p)
	return nil
}

// FundsByShift is the live fund view per seller, kept in sync with the
// latest FundRecord for each shift. It is a cache for fast current-state
// display; the history log remains the source of truth.
type FundsByShift struct {
	Day   FundPair `json:"dia"`
	Night FundPair `json:"noche"`
}

// Get returns the pair for a shift.
func (f *FundsByShift) Get(shift dates.Shift) FundPair {
	if shift == dates.ShiftNight {
		return f.Night
	}
	return f.Day
}

// Set replaces the pair for a shift.
func (f *FundsByShift) Set(shift dates.Shift, pair FundPair) {
	if shift == dates.ShiftNight {
		f.Night = pair
		return
	}
	f.Day = pair
}

// FundRecord is one confirmed fund entry in a seller's history log.
// Previous is derived by the reconciliation engine, never authoritative on
// its own; Current is only set when an operator explicitly confirms it.
type FundRecord struct {
	Date      string      `json:"fecha"`
	Shift     dates.Shift `json:"horario"`
	Previous  *float64    `json:"fondoAnterior,omitempty"`
	Current   *float64    `json:"fondoActual,omitempty"`
	UpdatedAt time.Time   `json:"ultimaActualizacion"`
}

// Validate checks that all fund record fields are valid.
func (r *FundRecord) Validate() error {
	if _, err := dates.Parse(r.Date); err != nil {
		return fmt.Errorf("fund record date: %w", err)
	}
	if !r.Shift.Valid() {
		return fmt.Errorf("fund record shift %q is not dia or noche", r.Shift)
	}
	return nil
}

// Seller is one selling agent: their pricing, assigned bosses, committed
// sales, fund state, and manual movements.
type Seller struct {
	Name          string       `json:"nombre"`
	UnitPrice     float64      `json:"precioVenta"`
	CommissionPct float64      `json:"porcentajeComision"`
	Bosses        []string     `json:"jefes"`
	Sales         []Sale       `json:"ventas"`
	Funds         FundsByShift `json:"fondosPorHorario"`
	// LegacyFund is the flat fund field older snapshots carried before funds
	// were split by shift. Read paths fall back to it when the per-shift view
	// is empty; it is never written to anymore.
	LegacyFund  float64      `json:"fondo,omitempty"`
	FundHistory []FundRecord `json:"historialFondos"`
	Movements   []Movement   `json:"movimientos"`
}

// Validate checks that all seller fields are valid.
func (s *Seller) Validate() error {
	if s.Name == "" {
		return errors.New("seller name must not be empty")
	}
	if s.UnitPrice < 0 {
		return errors.New("seller unit price must not be negative")
	}
	if s.CommissionPct < 0 || s.CommissionPct > 100 {
		return errors.New("seller commission must be between 0 and 100")
	}
	return nil
}

// Boss aggregates the sales of its sellers for reporting. Price and
// commission are optional overrides; when nil the seller's own values apply.
type Boss struct {
	Name          string   `json:"nombre"`
	UnitPrice     *float64 `json:"precioVenta,omitempty"`
	CommissionPct *float64 `json:"porcentajeComision,omitempty"`
	Sales         []Sale   `json:"ventas"`
}

// Validate checks that all boss fields are valid.
func (b *Boss) Validate() error {
	if b.Name == "" {
		return errors.New("boss name must not be empty")
	}
	if b.UnitPrice != nil && *b.UnitPrice < 0 {
		return errors.New("boss unit price must not be negative")
	}
	if b.CommissionPct != nil && (*b.CommissionPct < 0 || *b.CommissionPct > 100) {
		return errors.New("boss commission must be between 0 and 100")
	}
	return nil
}
