package journal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCommaDecimal converts a locale-formatted decimal string with a
// comma separator ("2,45") into an exact decimal. Dot-decimal input
// passes through unchanged, since journal quantities are printed with a
// dot while prices use a comma.
func ParseCommaDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}
