package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a German-formatted amount string into cents.
// Format examples: "1.234,56" -> 123456, "-588,74" -> -58874, "900" -> 90000.
// A trailing euro sign and surrounding whitespace are tolerated because
// amounts are frequently pasted straight from invoice documents.
func ParseAmount(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSuffix(clean, "€")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}

	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
