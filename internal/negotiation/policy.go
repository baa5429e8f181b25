package negotiation

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy is returned when discount tunables are out of range
var ErrInvalidPolicy = errors.New("invalid negotiation policy")

// Policy holds the bargaining tunables. The discount offered in round r is
// min(BasePercent + r*IncrementPercent, cap), where cap is the session's
// maximum discount.
type Policy struct {
	BasePercent        int `mapstructure:"base_percent" json:"base_percent"`
	IncrementPercent   int `mapstructure:"increment_percent" json:"increment_percent"`
	MaxDiscountPercent int `mapstructure:"max_discount_percent" json:"max_discount_percent"`
}

// DefaultPolicy returns the storefront defaults: 5% opening, +3% per round, 20% cap
func DefaultPolicy() Policy {
	return Policy{
		BasePercent:        5,
		IncrementPercent:   3,
		MaxDiscountPercent: 20,
	}
}

// Validate checks that every percentage is usable
func (p Policy) Validate() error {
	if p.BasePercent < 0 || p.BasePercent > 100 {
		return fmt.Errorf("%w: base percent %d out of [0,100]", ErrInvalidPolicy, p.BasePercent)
	}
	if p.IncrementPercent < 0 {
		return fmt.Errorf("%w: increment percent %d is negative", ErrInvalidPolicy, p.IncrementPercent)
	}
	if p.MaxDiscountPercent <= 0 || p.MaxDiscountPercent > 100 {
		return fmt.Errorf("%w: max discount percent %d out of (0,100]", ErrInvalidPolicy, p.MaxDiscountPercent)
	}
	return nil
}

// DiscountPercent returns the discount offered in the given round, capped at maxPercent
func DiscountPercent(p Policy, round, maxPercent int) int {
	return min(p.BasePercent+round*p.IncrementPercent, maxPercent)
}
