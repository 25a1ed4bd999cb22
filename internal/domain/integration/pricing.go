package integration

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultMargin is the target margin applied when none is configured
var DefaultMargin = decimal.NewFromFloat(0.4)

var (
	ErrNegativeBaseCost = errors.New("integration: base cost cannot be negative")
	ErrInvalidMargin    = errors.New("integration: margin must be in [0, 1)")
)

var ninetyNine = decimal.NewFromFloat(0.99)

// SellingPrice computes the storefront price for a base fulfillment cost:
// the quotient baseCost / (1 - margin) rounded up to a whole amount, plus
// 0.99, formatted to two decimals. The fractional part is always ".99" and
// the requested margin is a lower bound, never undercut by the rounding.
//
// A zero base cost yields "0.99". A negative base cost is rejected.
func SellingPrice(baseCost, margin decimal.Decimal) (string, error) {
	if baseCost.IsNegative() {
		return "", ErrNegativeBaseCost
	}
	if margin.IsNegative() || margin.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return "", ErrInvalidMargin
	}

	divisor := decimal.NewFromInt(1).Sub(margin)
	price := baseCost.Div(divisor).Ceil().Add(ninetyNine)
	return price.StringFixed(2), nil
}
