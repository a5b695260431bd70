package contract

import (
	"math"

	"suarec/models"
)

// IVA rate applied to taxable publication categories.
const TaxRate = 0.19

// PlatformFeeRate is the fee charged to the client on cash-settled contracts,
// booked as a debit when completion is verified.
const PlatformFeeRate = 0.08

// taxPolicy is the explicit pricing table keyed by publication category.
// Treatment is looked up, never inferred from other fields.
var taxPolicy = map[models.PublicationCategory]struct {
	Applies bool
	Rate    float64
}{
	models.CategoryService:    {Applies: true, Rate: TaxRate},
	models.CategoryProduct:    {Applies: true, Rate: TaxRate},
	models.CategoryEmployment: {Applies: false},
}

// PriceWithTax returns the tax-inclusive total for a price under the given
// category, rounded to whole pesos. Unknown categories are treated as untaxed;
// callers validate the category before getting here.
func PriceWithTax(category models.PublicationCategory, price float64) float64 {
	policy, ok := taxPolicy[category]
	if !ok || !policy.Applies {
		return math.Round(price)
	}
	return math.Round(price * (1 + policy.Rate))
}

// PlatformFee returns the rounded cash-settlement fee on a price.
func PlatformFee(price float64) float64 {
	return math.Round(price * PlatformFeeRate)
}

// AmountInCents converts a peso amount to the integer cent amount the payment
// gateway expects.
func AmountInCents(amount float64) int64 {
	return int64(math.Round(amount)) * 100
}

// validPrice reports whether p is a positive finite number.
func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}
