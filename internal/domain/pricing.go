package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultCurrency is applied when a request omits the currency code.
const DefaultCurrency = "USD"

var (
	// ErrPricingUnresolvable signals that no variant of the pricing spec was supplied.
	ErrPricingUnresolvable = errors.New("pricing: not resolvable")
	// ErrPricingNonPositive signals a resolved grand total of zero or less.
	ErrPricingNonPositive = errors.New("pricing: grand total must be positive")
)

// PricingSpec is the tagged union accepted at the API boundary: an explicit
// breakdown, a named plan object, or a flat plan-name/plan-price pair.
// Exactly one variant is consulted, in that order of precedence.
type PricingSpec struct {
	Explicit *Pricing
	Plan     *PlanSpec
	FlatName string
	FlatPrice string
}

// PlanSpec is the inline plan object variant of a pricing spec.
type PlanSpec struct {
	Name  string
	Price string
}

// ResolvePricing collapses a PricingSpec into a canonical Pricing value.
// Plan prices accept "$49", "49" and "49.00" forms. The resolved grand total
// must be strictly positive.
func ResolvePricing(spec PricingSpec) (Pricing, string, error) {
	switch {
	case spec.Explicit != nil:
		pricing := *spec.Explicit
		if pricing.Currency == "" {
			pricing.Currency = DefaultCurrency
		}
		if pricing.GrandTotal == 0 {
			pricing.GrandTotal = pricing.Subtotal + pricing.Tax + pricing.Shipping - pricing.Discount
		}
		if pricing.Subtotal == 0 {
			pricing.Subtotal = pricing.GrandTotal
		}
		if pricing.GrandTotal <= 0 {
			return Pricing{}, "", ErrPricingNonPositive
		}
		return pricing, "", nil

	case spec.Plan != nil:
		return resolveFlat(spec.Plan.Name, spec.Plan.Price)

	case strings.TrimSpace(spec.FlatName) != "" || strings.TrimSpace(spec.FlatPrice) != "":
		return resolveFlat(spec.FlatName, spec.FlatPrice)

	default:
		return Pricing{}, "", ErrPricingUnresolvable
	}
}

func resolveFlat(name, price string) (Pricing, string, error) {
	planName := strings.TrimSpace(name)
	amount, err := ParsePrice(price)
	if err != nil {
		return Pricing{}, "", fmt.Errorf("%w: %v", ErrPricingUnresolvable, err)
	}
	if amount <= 0 {
		return Pricing{}, "", ErrPricingNonPositive
	}
	return Pricing{
		Subtotal:   amount,
		GrandTotal: amount,
		Currency:   DefaultCurrency,
	}, planName, nil
}

// ParsePrice parses a price string, tolerating a leading currency symbol and
// surrounding whitespace.
func ParsePrice(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimLeft(cleaned, "$€£¥ ")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price %q", raw)
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	return amount, nil
}
