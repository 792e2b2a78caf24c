// Package normalizer rewrites raw pasted bet text into a canonical
// line-oriented grammar the classifier can match with a small fixed set of
// patterns.
//
// Operator input arrives as free-form chat text: shorthand keywords, typos,
// digit/letter confusions, and copy-pasted messaging-app metadata. Rather
// than parsing every variant, normalization funnels all of them toward one
// canonical form through ordered regex substitution passes:
//
//	terminal 5 al 95 con 10   →  TerminaL-05-aL-95-con-10
//	l-5-100                   →  Linea-05-100
//	pareja de 20              →  Pareja-con-20
//
// The passes are data-driven tables of (pattern, replacement) rules, applied
// in a fixed order and repeated until a fixpoint or the iteration cap is
// reached. A single pass cannot resolve chained ambiguous boundaries, so
// callers must not assume single-pass correctness; Normalize is idempotent
// once the fixpoint is reached.
package normalizer

import (
	"regexp"
	"strings"
)

// DefaultMaxIterations bounds the rewrite loop when no fixpoint is reached.
const DefaultMaxIterations = 15

// Rule is one ordered substitution. Rules live in tables, not inlined
// control flow, so ordering and additions stay auditable and testable per
// rule.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Repl    string
}

// Apply runs the single rule over the whole text.
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllString(text, r.Repl)
}

// digitConfusionRules fix the lone letter o standing in for a zero when it
// sits adjacent to digits.
var digitConfusionRules = []Rule{
	{"o between digits", regexp.MustCompile(`(\d)[oO](\d)`), "${1}0${2}"},
	{"o before digit", regexp.MustCompile(`(?i)(^|[^a-zñ0-9])o(\d)`), "${1}0${2}"},
	{"o after digit", regexp.MustCompile(`(?i)(\d)o($|[^a-zñ0-9])`), "${1}0${2}"},
}

// metadataRules replace messaging-app metadata lines with the literal "sms"
// marker so the classifier can skip them as non-wagers instead of reporting
// them as parse failures.
var metadataRules = []Rule{
	{"bracketed timestamp line", regexp.MustCompile(`(?m)^\[[^\]\n]*\d{1,2}:\d{2}[^\]\n]*\][^\n]*$`), "sms"},
	{"chat export header line", regexp.MustCompile(`(?m)^\d{1,2}/\d{1,2}/\d{2,4},? \d{1,2}:\d{2}[^\n]*-[^\n]*$`), "sms"},
	{"battery percentage line", regexp.MustCompile(`(?m)^[^\n%]*\d{1,3}%[^\n]*$`), "sms"},
}

// connectorRules collapse every spelling of the "with" connector to the
// single -con- token and the "and" connector to -y-. The c/de/von/com forms
// are all observed operator shorthand for con.
var connectorRules = []Rule{
	{"con variants between digits", regexp.MustCompile(`(?i)(\d)[ ]*[-.,;:=]?[ ]*(?:con|com|von|de|c)[ ]*[-.,;:=]?[ ]*(\d)`), "${1}-con-${2}"},
	{"con variants after keyword token", regexp.MustCompile(`(?i)(Pareja-|Linea-|TerminaL-|Decena-)(?:con|com|von|de)[ -]*(\d)`), "${1}con-${2}"},
	{"y connector between digits", regexp.MustCompile(`(?i)(\d)[ ]*[-,]?[ ]*y[ ]*[-,]?[ ]*(\d)`), "${1}-y-${2}"},
}

// keywordRules canonicalize wager-type keywords, including the one-letter
// shorthands operators use at the start of a line. Every rule anchors on a
// following digit so a bare keyword with nothing after it is left alone
// (and later reported as an invalid line) instead of oscillating between
// passes.
var keywordRules = []Rule{
	{"pareja al", regexp.MustCompile(`(?i)\bparejas?\b[ ]+al[ ]*-?[ ]*(\d)`), "Pareja-aL-${1}"},
	{"pareja con", regexp.MustCompile(`(?i)\bparejas?\b[ ]*[-.,;:=]*[ ]*(?:con|com|de|c)[ ]*[-.,;:=]*[ ]*(\d)`), "Pareja-con-${1}"},
	{"terminal keyword", regexp.MustCompile(`(?i)\bterm(?:inal)?(?:es)?\b[ ]*[-.,;:=]*[ ]*(\d)`), "TerminaL-${1}"},
	{"linea keyword", regexp.MustCompile(`(?i)\bl[ií]neas?\b[ ]*[-.,;:=]*[ ]*(\d)`), "Linea-${1}"},
	{"pareja keyword", regexp.MustCompile(`(?i)\bparejas?\b[ ]*[-.,;:=]*[ ]*(\d)`), "Pareja-${1}"},
	{"decena keyword", regexp.MustCompile(`(?i)\bdecenas?\b[ ]*[-.,;:=]*[ ]*(\d)`), "Decena-${1}"},
	{"t shorthand", regexp.MustCompile(`(?im)^[ ]*t[ ]*[-.,;:=]+[ ]*(\d)`), "TerminaL-${1}"},
	{"l shorthand", regexp.MustCompile(`(?im)^[ ]*l[ ]*[-.,;:=]+[ ]*(\d)`), "Linea-${1}"},
	{"p shorthand", regexp.MustCompile(`(?im)^[ ]*p[ ]*[-.,;:=]+[ ]*(\d)`), "Pareja-${1}"},
}

// rangeRules canonicalize the "A al B" range keyword.
var rangeRules = []Rule{
	{"al between digits", regexp.MustCompile(`(?i)(\d)[ ]*-?[ ]*al[ ]*-?[ ]*(\d)`), "${1}-aL-${2}"},
	{"al after pareja token", regexp.MustCompile(`(?i)(Pareja-)al[ ]*-?[ ]*(\d)`), "${1}aL-${2}"},
	{"del prefix", regexp.MustCompile(`(?im)^[ ]*del?[ ]+(\d)`), "${1}"},
}

// diacriticReplacer strips accents so pattern tables only ever deal with
// plain ASCII.
var diacriticReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ñ", "N", "Ü", "U",
)

// punctuationRules unify ratio separators and collapse repeated punctuation
// so downstream patterns only see single hyphens between tokens.
var punctuationRules = []Rule{
	{"ratio separator to hyphen", regexp.MustCompile(`(\d)[ ]*[=:;.][ ]*(\d)`), "${1}-${2}"},
	{"space around hyphen", regexp.MustCompile(`[ ]*-[ ]*`), "-"},
	{"repeated hyphens", regexp.MustCompile(`-{2,}`), "-"},
	{"repeated commas", regexp.MustCompile(`,{2,}`), ","},
	{"repeated semicolons", regexp.MustCompile(`;{2,}`), ";"},
	{"repeated underscores", regexp.MustCompile(`_{2,}`), "_"},
	{"repeated spaces", regexp.MustCompile(` {2,}`), " "},
	{"hyphen comma mix", regexp.MustCompile(`-[,;]|[,;]-`), "-"},
	{"trailing line separators", regexp.MustCompile(`(?m)[-,;_ ]+$`), ""},
}

// paddingRule zero-pads single digits not adjacent to other digits or
// letters, so fixed-width patterns match reliably ("5-10" → "05-10").
// Overlapping candidates are resolved by the outer fixpoint loop.
var paddingRule = Rule{
	"zero-pad lone digit",
	regexp.MustCompile(`(?m)(^|[^0-9A-Za-z])(\d)([^0-9A-Za-z]|$)`),
	"${1}0${2}${3}",
}

// boundaryRules insert newlines at inferred wager boundaries: a completed
// con-amount wager followed by more content, a keyword following a monetary
// amount on the same line, or two ratio-like tokens with no separator. The
// table is applied repeatedly because each insertion can expose the next
// chained boundary.
var boundaryRules = []Rule{
	{"wager after con amount", regexp.MustCompile(`(-con-\d+)[ ,;.]+(\d)`), "${1}\n${2}"},
	{"glued wager after con amount", regexp.MustCompile(`(-con-\d+)-(\d{2,3}[-,]\d)`), "${1}\n${2}"},
	{"keyword after con amount", regexp.MustCompile(`(-con-\d+)[ ,;.]*(TerminaL-|Linea-|Pareja-|Decena-)`), "${1}\n${2}"},
	{"keyword after amount", regexp.MustCompile(`(\d)[ ,;.]+(TerminaL-|Linea-|Pareja-|Decena-)`), "${1}\n${2}"},
	{"keyword after hyphenated amount", regexp.MustCompile(`(\d)-(TerminaL-|Linea-|Pareja-|Decena-)`), "${1}\n${2}"},
	{"adjacent ratio tokens", regexp.MustCompile(`(\d{2,3}-\d+)[ ;.,]+(\d{2,3}-\d)`), "${1}\n${2}"},
	{"blank line collapse", regexp.MustCompile(`\n{2,}`), "\n"},
	{"leading line space", regexp.MustCompile(`(?m)^[ ]+`), ""},
}

// Normalizer rewrites raw submissions into the canonical grammar.
type Normalizer struct {
	maxIterations int
}

// New creates a Normalizer with the given iteration cap. A cap below 1
// falls back to DefaultMaxIterations.
func New(maxIterations int) *Normalizer {
	if maxIterations < 1 {
		maxIterations = DefaultMaxIterations
	}
	return &Normalizer{maxIterations: maxIterations}
}

// pass runs every stage once, in order: digit confusions, metadata lines,
// connectors, keywords, ranges, diacritics, punctuation, padding, boundaries.
func (n *Normalizer) pass(text string) string {
	for _, r := range digitConfusionRules {
		text = r.Apply(text)
	}
	for _, r := range metadataRules {
		text = r.Apply(text)
	}
	for _, r := range connectorRules {
		text = r.Apply(text)
	}
	for _, r := range keywordRules {
		text = r.Apply(text)
	}
	for _, r := range rangeRules {
		text = r.Apply(text)
	}
	text = diacriticReplacer.Replace(text)
	for _, r := range punctuationRules {
		text = r.Apply(text)
	}
	text = paddingRule.Apply(text)
	for _, r := range boundaryRules {
		text = r.Apply(text)
	}
	return text
}

// Normalize rewrites raw text into the canonical token grammar. The full
// stage list is repeated until a fixpoint or the iteration cap, whichever
// comes first; line structure is preserved except where a boundary rule
// deliberately inserts one.
func (n *Normalizer) Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.TrimSpace(text)

	for i := 0; i < n.maxIterations; i++ {
		next := n.pass(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

// Lines normalizes raw text and splits it into trimmed, non-empty lines.
func (n *Normalizer) Lines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(n.Normalize(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
