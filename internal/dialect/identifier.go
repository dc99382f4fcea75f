package dialect

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type foldMode int

const (
	foldNone foldMode = iota
	foldLower
	foldUpper
)

// identifiers implements the identifier policies shared by every vendor.
type identifiers struct {
	fold      foldMode
	maxLength int // 0 means uncapped
	quote     byte
}

func (id identifiers) MaxIdentifierLength() int { return id.maxLength }

func (id identifiers) NormalizeIdentifier(name string) string {
	switch id.fold {
	case foldLower:
		name = cases.Lower(language.Und).String(name)
	case foldUpper:
		name = cases.Upper(language.Und).String(name)
	}
	return capIdentifier(name, id.maxLength)
}

func (id identifiers) QuoteIdentifier(name string) string {
	q := string(id.quote)
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// capIdentifier shortens names longer than limit by keeping a prefix and
// appending an 8 hex digit hash of the full name, so distinct long names stay
// distinct after truncation.
func capIdentifier(name string, limit int) string {
	if limit <= 0 || len(name) <= limit {
		return name
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	suffix := fmt.Sprintf("_%08x", h.Sum32())
	keep := limit - len(suffix)
	if keep < 1 {
		return suffix[len(suffix)-limit:]
	}
	for keep > 0 && !utf8.RuneStart(name[keep]) {
		keep--
	}
	return name[:keep] + suffix
}
