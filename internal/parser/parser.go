package parser

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"sort"
	"strings"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownLayout is returned by NewLayout for unregistered layout names.
var ErrUnknownLayout = errors.New("unknown statement layout")

// Layout bundles the patterns that describe one statement format.
// Adding a format means registering a new Layout; the scanning code
// does not change.
type Layout struct {
	Name string

	// Currency must capture the currency word in group 1.
	Currency *regexp.Regexp
	// Period must capture the month in group 1 and the year in group 2.
	Period *regexp.Regexp
	// Line must capture date, description, amount and balance in groups 1-4.
	Line *regexp.Regexp
}

var layouts = map[string]*Layout{
	DefaultLayout.Name: DefaultLayout,
}

// NewLayout returns the registered layout with the given name.
func NewLayout(name string) (*Layout, error) {
	l, ok := layouts[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownLayout, name, strings.Join(Layouts(), ", "))
	}
	return l, nil
}

// Layouts returns the registered layout names, sorted.
func Layouts() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractMetadata finds the currency and statement period declared in text.
// A missing currency yields CurrencyUnknown, a missing period an empty string.
func (l *Layout) ExtractMetadata(text string) models.StatementMetadata {
	folded := foldDiacritics(text)
	meta := models.StatementMetadata{Currency: models.CurrencyUnknown}

	if m := l.Currency.FindStringSubmatch(folded); m != nil {
		if c := models.Currency(strings.ToUpper(m[1])); c.Recognized() {
			meta.Currency = c
		}
	}

	if m := l.Period.FindStringSubmatch(folded); m != nil {
		month := cases.Title(language.Spanish).String(m[1])
		meta.Period = month + " " + m[2]
	}

	return meta
}

// Candidates returns the transaction lines found in text, top to bottom.
// The sequence is lazy and can be ranged over more than once.
func (l *Layout) Candidates(text string) iter.Seq[models.TransactionCandidate] {
	return func(yield func(models.TransactionCandidate) bool) {
		pos := 0
		for pos < len(text) {
			m := l.Line.FindStringSubmatchIndex(text[pos:])
			if m == nil {
				return
			}
			group := func(i int) string {
				return text[pos+m[2*i] : pos+m[2*i+1]]
			}
			c := models.TransactionCandidate{
				Date:        group(1),
				Description: group(2),
				Amount:      group(3),
				Balance:     group(4),
			}
			if !yield(c) {
				return
			}
			pos += m[1]
		}
	}
}
