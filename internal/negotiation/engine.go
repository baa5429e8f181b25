package negotiation

import (
	"math"
	"strings"

	"ShopMate/internal/catalog"
	"ShopMate/internal/intent"
	"ShopMate/internal/language"
)

// AcceptKeywords close a deal when found anywhere in a message (case-insensitive).
// Matching is by substring, so "ok" also matches "book" or "look".
var AcceptKeywords = []string{"yes", "deal", "ok", "okay", "ठीक है", "हां", "हाँ", "ಹೌದು"}

// Kind classifies the result of a negotiation turn
type Kind int

const (
	// Inactive means no session is running and the caller should route the message
	Inactive Kind = iota
	Deal
	Counter
)

func (k Kind) String() string {
	switch k {
	case Deal:
		return "deal"
	case Counter:
		return "counter"
	default:
		return "inactive"
	}
}

// Outcome is the engine's decision for one turn
type Outcome struct {
	Kind            Kind    `json:"kind"`
	Price           float64 `json:"price,omitempty"`
	DiscountPercent int     `json:"discount_percent,omitempty"`
	Round           int     `json:"round,omitempty"`
}

// Engine applies a Policy to sessions it does not own
type Engine struct {
	policy         Policy
	acceptKeywords []string
}

// NewEngine creates an engine. The policy is assumed valid; see Policy.Validate.
func NewEngine(policy Policy) *Engine {
	keywords := make([]string, len(AcceptKeywords))
	for i, k := range AcceptKeywords {
		keywords[i] = strings.ToLower(k)
	}
	return &Engine{policy: policy, acceptKeywords: keywords}
}

// Policy returns the engine's tunables
func (e *Engine) Policy() Policy {
	return e.policy
}

// Start opens a session for product, replacing whatever session the caller
// held before. A non-positive maxDiscountPercent selects the policy cap.
func (e *Engine) Start(product catalog.Product, maxDiscountPercent int, lang language.Locale) Session {
	if maxDiscountPercent <= 0 {
		maxDiscountPercent = e.policy.MaxDiscountPercent
	}
	maxDiscountPercent = min(maxDiscountPercent, 100)

	original := math.Max(product.Price, 0)
	return Session{
		active:             true,
		product:            product,
		originalPrice:      original,
		minPrice:           math.Min(priceAt(original, maxDiscountPercent), original),
		maxDiscountPercent: maxDiscountPercent,
		language:           lang,
	}
}

// Accepts reports whether message contains an acceptance keyword
func (e *Engine) Accepts(message string) bool {
	return intent.ContainsAny(strings.ToLower(message), e.acceptKeywords)
}

// Evaluate advances s by one user turn
func (e *Engine) Evaluate(s *Session, message string) Outcome {
	if s == nil || !s.active {
		return Outcome{Kind: Inactive}
	}

	if e.Accepts(message) {
		agreed := s.agreedPrice()
		s.Reset()
		return Outcome{Kind: Deal, Price: agreed}
	}

	round := s.round + 1
	discount := DiscountPercent(e.policy, round, s.maxDiscountPercent)
	offer := math.Max(priceAt(s.originalPrice, discount), s.minPrice)
	if s.hasOffer {
		offer = math.Min(offer, s.lastOffer)
	}
	offer = math.Min(offer, s.originalPrice)

	s.round = round
	s.lastOffer = offer
	s.hasOffer = true

	return Outcome{Kind: Counter, Price: offer, DiscountPercent: discount, Round: round}
}

// priceAt rounds price reduced by percent to the nearest whole unit
func priceAt(price float64, percent int) float64 {
	return math.Round(price * (1 - float64(percent)/100))
}
