package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// thousandsGroups matches dot-separated thousands grouping, e.g. "1.497"
// or "12.345.678".
var thousandsGroups = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// ParsePrice converts a price cell into whole currency units, rounding
// half-up. Accepted forms: "1497", "1.497", "1497,00", "R$ 1.497,00",
// "1497.50". When a comma is present it is the decimal separator and dots
// are thousands separators; without a comma, dots in strict groups of
// three are thousands separators and a single dot otherwise is the
// decimal point.
func ParsePrice(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, fmt.Errorf("preço vazio")
	}

	switch {
	case strings.Contains(s, ","):
		if strings.Count(s, ",") > 1 {
			return 0, fmt.Errorf("preço inválido %q", raw)
		}
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case thousandsGroups.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	case strings.Count(s, ".") > 1:
		return 0, fmt.Errorf("preço inválido %q", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("preço inválido %q: %w", raw, err)
	}
	return d.Round(0).IntPart(), nil
}
