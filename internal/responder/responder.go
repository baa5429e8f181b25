package responder

import (
	"fmt"
	"strconv"

	"ShopMate/internal/catalog"
	"ShopMate/internal/intent"
	"ShopMate/internal/language"
	"ShopMate/internal/negotiation"
)

// Reply is the bot's answer to one user message. Text is what the user sees;
// routing replies also end with a [ROUTE:...] marker so the text stays
// self-describing if the side-effect channel is dropped.
type Reply struct {
	Text             string              `json:"text"`
	Locale           language.Locale     `json:"locale"`
	Navigation       *intent.Destination `json:"navigation,omitempty"`
	ClearNegotiation bool                `json:"clear_negotiation,omitempty"`
	Outcome          negotiation.Outcome `json:"outcome"`
}

// Generator composes language detection, negotiation and routing into replies
type Generator struct {
	engine *negotiation.Engine
	router *intent.Router
}

// New creates a reply generator
func New(engine *negotiation.Engine, router *intent.Router) *Generator {
	return &Generator{engine: engine, router: router}
}

// Engine returns the negotiation engine replies are computed with
func (g *Generator) Engine() *negotiation.Engine {
	return g.engine
}

// Generate answers message. An active negotiation takes priority over routing
// and is advanced in place.
func (g *Generator) Generate(message string, s *negotiation.Session) Reply {
	detected := language.Detect(message)

	if s != nil && s.Active() {
		// read before Evaluate: a deal resets the session
		locale := s.Language()
		if !locale.Valid() {
			locale = detected
		}

		outcome := g.engine.Evaluate(s, message)
		switch outcome.Kind {
		case negotiation.Deal:
			return Reply{
				Text:             dealConfirmed.in(locale),
				Locale:           locale,
				ClearNegotiation: true,
				Outcome:          outcome,
			}
		case negotiation.Counter:
			return Reply{
				Text:    fmt.Sprintf(counteroffer.in(locale), FormatPrice(outcome.Price), outcome.DiscountPercent),
				Locale:  locale,
				Outcome: outcome,
			}
		}
	}

	return g.Route(message, detected)
}

// Route answers message in routing mode, ignoring any negotiation
func (g *Generator) Route(message string, locale language.Locale) Reply {
	dest, ok := g.router.Route(message)
	if !ok {
		return Reply{Text: help.in(locale), Locale: locale}
	}

	return Reply{
		Text:       confirmation(dest, locale) + "\n" + intent.Marker(dest),
		Locale:     locale,
		Navigation: &dest,
	}
}

// Greeting returns the first bot message of a conversation
func (g *Generator) Greeting(locale language.Locale) string {
	return greeting.in(locale)
}

// NegotiationOpener returns the bot message that opens bargaining for p
func (g *Generator) NegotiationOpener(p catalog.Product, locale language.Locale) string {
	return fmt.Sprintf(opener.in(locale), p.Name, FormatPrice(p.Price))
}

// FormatPrice renders an amount without trailing zeros
func FormatPrice(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func confirmation(dest intent.Destination, locale language.Locale) string {
	if texts, ok := navigation[dest.Name]; ok {
		return texts.in(locale)
	}
	return fmt.Sprintf(navigationFallback.in(locale), dest.Name)
}
