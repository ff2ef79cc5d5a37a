package morse

import (
	"fmt"
	"maps"
	"slices"
)

// WordSeparator is the symbol emitted for a space between words.
const WordSeparator = '/'

// Table names accepted by TableByName.
const (
	TableStandard = "standard"
	TableExtended = "extended"
)

// Table maps an upper-case rune to its dot/dash group.
type Table map[rune]string

var standard = Table{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'1': ".----", '2': "..---", '3': "...--", '4': "....-", '5': ".....",
	'6': "-....", '7': "--...", '8': "---..", '9': "----.", '0': "-----",
	' ': string(WordSeparator),
}

// ITU punctuation. '/' is the fraction bar here; it only means "word gap"
// in translated output.
var punctuation = Table{
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '\'': ".----.",
	'!': "-.-.--", '/': "-..-.", '(': "-.--.", ')': "-.--.-",
	'&': ".-...", ':': "---...", ';': "-.-.-.", '=': "-...-",
	'+': ".-.-.", '-': "-....-", '_': "..--.-", '"': ".-..-.",
	'$': "...-..-", '@': ".--.-.",
}

// Standard returns a copy of the letters, digits and word space table.
func Standard() Table {
	return maps.Clone(standard)
}

// Extended returns the standard table plus ITU punctuation.
func Extended() Table {
	t := maps.Clone(standard)
	maps.Copy(t, punctuation)
	return t
}

// TableByName resolves one of the TableStandard or TableExtended names.
func TableByName(name string) (Table, error) {
	switch name {
	case "", TableStandard:
		return Standard(), nil
	case TableExtended:
		return Extended(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
}

// Lookup returns the group for r, which must already be upper case.
func (t Table) Lookup(r rune) (string, bool) {
	code, ok := t[r]
	return code, ok
}

// Runes returns the table's keys in code point order.
func (t Table) Runes() []rune {
	return slices.Sorted(maps.Keys(t))
}
