package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrMalformedAmount is returned when an amount token is not a two-decimal number.
var ErrMalformedAmount = errors.New("malformed amount")

// amountPattern accepts "1,234.56", "-980.00" and ungrouped "1200.00".
var amountPattern = regexp.MustCompile(`^-?(?:\d{1,3}(?:,\d{3})*|\d+)\.\d{2}$`)

// ParseAmount converts a statement amount like "-1,234.56" to an exact decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q: %v", ErrMalformedAmount, s, err)
	}
	return d, nil
}

// foldDiacritics strips combining marks so "DÓLARES" compares equal to "DOLARES".
// Handles both precomposed and decomposed input.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
