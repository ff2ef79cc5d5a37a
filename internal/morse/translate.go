package morse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Translate converts line to symbols using the standard table.
func Translate(line string) string {
	return standard.Translate(line)
}

// Translate upper-cases line and joins the group of every rune with a single
// space. Runes missing from the table yield an empty group, so they are
// silent but still contribute their separator.
func (t Table) Translate(line string) string {
	var b strings.Builder
	for i, r := range []rune(strings.ToUpper(line)) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t[r])
	}
	return b.String()
}

// Translator pairs a table with input normalisation.
type Translator struct {
	Table Table

	// FoldDiacritics strips combining marks before lookup so that
	// "CAFÉ" keys the same as "CAFE".
	FoldDiacritics bool
}

// NewTranslator returns a Translator over table with diacritic folding on.
func NewTranslator(table Table) Translator {
	return Translator{Table: table, FoldDiacritics: true}
}

// Translate converts line to a symbol string.
func (tr Translator) Translate(line string) string {
	if tr.FoldDiacritics {
		line = Fold(line)
	}
	table := tr.Table
	if table == nil {
		table = standard
	}
	return table.Translate(line)
}

// Fold removes combining diacritical marks from s. Input that cannot be
// transformed is returned unchanged.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
