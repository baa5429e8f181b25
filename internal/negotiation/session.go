package negotiation

import (
	"ShopMate/internal/catalog"
	"ShopMate/internal/language"
)

// Session is the bargaining state for a single product. The zero value is an
// idle session; an active one can only be obtained from Engine.Start, so the
// prices it carries are always initialised.
type Session struct {
	active             bool
	product            catalog.Product
	originalPrice      float64
	minPrice           float64
	maxDiscountPercent int
	round              int
	lastOffer          float64
	hasOffer           bool
	language           language.Locale
}

// Active reports whether a negotiation is in progress
func (s *Session) Active() bool { return s.active }

// Product returns a copy of the product under negotiation
func (s *Session) Product() catalog.Product { return s.product }

// OriginalPrice returns the catalog price at session start
func (s *Session) OriginalPrice() float64 { return s.originalPrice }

// MinPrice returns the floor price, fixed for the session's lifetime
func (s *Session) MinPrice() float64 { return s.minPrice }

// MaxDiscountPercent returns the session's discount cap
func (s *Session) MaxDiscountPercent() int { return s.maxDiscountPercent }

// Round returns the number of counteroffers made so far
func (s *Session) Round() int { return s.round }

// LastOffer returns the most recent counteroffer, if any
func (s *Session) LastOffer() (float64, bool) { return s.lastOffer, s.hasOffer }

// Language returns the locale pinned at session start
func (s *Session) Language() language.Locale { return s.language }

// Reset returns the session to idle, discarding all negotiation state
func (s *Session) Reset() {
	*s = Session{}
}

// agreedPrice is the price a deal closes at
func (s *Session) agreedPrice() float64 {
	if s.hasOffer {
		return s.lastOffer
	}
	return s.originalPrice
}
