package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw price field into a decimal. Empty strings mean
// "no value" rather than zero, matching how the clients submit cleared
// price inputs.
func ParseAmount(value string) (*decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	return &amount, nil
}
