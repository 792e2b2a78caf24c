// Package wager classifies normalized bet lines into wager types and expands
// each type into the explicit set of numbers staked and the prize owed
// against a winning number.
//
// Lines entering this package must already be in the canonical grammar
// produced by the normalizer: hyphen-separated tokens, zero-padded numbers,
// and the TerminaL- / Linea- / Pareja- / Decena- / -con- / -aL- keywords.
//
// Winning-number convention: the UI and persisted records use 100 as the
// sentinel for "00". Inside this package the representation is always 0–99
// with 0 meaning "00"; Canonical folds the sentinel at the boundary, and
// played-number maps are keyed 0–99.
package wager

import (
	"errors"
	"fmt"
	"regexp"
)

// Type identifies one of the recognized wager forms.
type Type string

const (
	// TypeSMS marks the literal separator line left by metadata stripping.
	// It is a valid no-op, not a wager.
	TypeSMS Type = "sms"
	// TypeLinea covers a contiguous range of numbers, typically a decade,
	// from one or two head numbers.
	TypeLinea Type = "linea"
	// TypeLineaConY is the "linea A y B con M" form: several independent
	// heads sharing one stake amount.
	TypeLineaConY Type = "linea-con-y"
	// TypeDecena covers the full decade containing the head.
	TypeDecena Type = "decena"
	// TypeTerminal covers every number ending in the head digit.
	TypeTerminal Type = "terminal"
	// TypeTerminalMultiple is a terminal with several head digits.
	TypeTerminalMultiple Type = "terminal-multiple"
	// TypeTerminalAl is the "terminal A al B" form with an explicit range.
	TypeTerminalAl Type = "terminal-al"
	// TypePareja covers the fixed doubles set {00, 11, ..., 99}.
	TypePareja Type = "pareja"
	// TypeParejaAl is the "parejas al N" spelling of the doubles wager.
	TypeParejaAl Type = "parejas-al"
	// TypeNumeroAlNumero is the "A al B con M" explicit range.
	TypeNumeroAlNumero Type = "numero-al-numero"
	// TypeRango is a bare "A-B con M" range without the al keyword.
	TypeRango Type = "rango-con-monto"
	// TypeListaComa is a comma-separated number list sharing one amount.
	TypeListaComa Type = "lista-coma"
	// TypeListaCon is a dash-separated number list with a con amount.
	TypeListaCon Type = "lista-con"
	// TypeTresNumeros is the bare three-number dash form: two heads and an
	// amount.
	TypeTresNumeros Type = "tres-numeros"
	// TypeNumero is a single number with its amount.
	TypeNumero Type = "numero"
	// TypeGenerico is the catch-all list form: all numbers but the last are
	// heads, the last is the shared amount.
	TypeGenerico Type = "generico"
)

// ErrLoneNumber rejects a line that is nothing but a 3+ digit number. A bare
// long number is almost always a missing separator, and accepting it would
// misfire as a huge stake.
var ErrLoneNumber = errors.New("lone number not valid")

// ErrUnrecognized reports a line matching no known wager pattern.
var ErrUnrecognized = errors.New("unrecognized wager form")

// linePattern binds a named regular expression to the type it classifies.
type linePattern struct {
	name string
	re   *regexp.Regexp
	typ  Type
}

// linePatterns is tested in order and the first match wins. Specific forms
// (terminal-al, parejas-al, linea con y) come before their generic
// counterparts; reordering entries changes classification.
var linePatterns = []linePattern{
	{"sms marker", regexp.MustCompile(`^(?i:sms):?$`), TypeSMS},
	{"terminal al", regexp.MustCompile(`^TerminaL-\d{2,3}-aL-\d{2,3}(?:-con)?-\d+$`), TypeTerminalAl},
	{"terminal multiple", regexp.MustCompile(`^TerminaL-\d{2}(?:-(?:y-)?\d{2})+(?:-con)?-\d+$`), TypeTerminalMultiple},
	{"terminal", regexp.MustCompile(`^TerminaL-\d{2,3}(?:-con)?-\d+$`), TypeTerminal},
	{"parejas al", regexp.MustCompile(`^Pareja-(?:\d{2,3}-)?aL-\d{2,3}(?:-con)?-\d+$`), TypeParejaAl},
	{"pareja", regexp.MustCompile(`^Pareja-(?:con-)?\d+$`), TypePareja},
	{"linea con y", regexp.MustCompile(`^Linea-\d{2}(?:-y-\d{2})+(?:-con)?-\d+$`), TypeLineaConY},
	{"linea", regexp.MustCompile(`^Linea-\d{2,3}(?:-\d{2,3})?(?:-con)?-\d+$`), TypeLinea},
	{"decena", regexp.MustCompile(`^Decena-\d{2}(?:-con)?-\d+$`), TypeDecena},
	{"numero al numero", regexp.MustCompile(`^\d{2,3}-aL-\d{2,3}(?:-con)?-\d+$`), TypeNumeroAlNumero},
	{"rango con monto", regexp.MustCompile(`^\d{2,3}-\d{2,3}-con-\d+$`), TypeRango},
	{"lista con coma", regexp.MustCompile(`^\d{2,3}(?:,\d{2,3})+(?:-con)?-\d+$`), TypeListaComa},
	{"lista con con", regexp.MustCompile(`^\d{2,3}(?:-\d{2,3}){2,}-con-\d+$`), TypeListaCon},
	{"tres numeros", regexp.MustCompile(`^\d{2,3}-\d{2,3}-\d+$`), TypeTresNumeros},
	{"numero", regexp.MustCompile(`^\d{2,3}(?:-con)?-\d+$`), TypeNumero},
	{"generico", regexp.MustCompile(`^\d{2,3}(?:[-,]\d{1,4})+$`), TypeGenerico},
}

// loneNumberRe matches a line that is a single 3+ digit number.
var loneNumberRe = regexp.MustCompile(`^\d{3,}$`)

// Classify matches a normalized line against the ordered pattern list and
// returns the first matching type. A lone 3+ digit number is explicitly
// rejected rather than falling through to the generic form.
func Classify(line string) (Type, error) {
	if loneNumberRe.MatchString(line) {
		return "", ErrLoneNumber
	}
	for _, p := range linePatterns {
		if p.re.MatchString(line) {
			return p.typ, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognized, line)
}
