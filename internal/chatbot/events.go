package chatbot

import (
	"ShopMate/internal/language"
	"ShopMate/internal/negotiation"
	"ShopMate/internal/session"
)

// EventType names a change published to listeners
type EventType string

const (
	EventMessage     EventType = "message"
	EventNegotiation EventType = "negotiation"
	EventVisibility  EventType = "visibility"
	EventReset       EventType = "reset"
)

// Event describes one change to the conversation. For EventNegotiation a nil
// Negotiation means the negotiation ended.
type Event struct {
	Type        EventType        `json:"type"`
	Message     *session.Message `json:"message,omitempty"`
	Negotiation *NegotiationView `json:"negotiation,omitempty"`
	Open        bool             `json:"open,omitempty"`
}

// Listener receives events. It is called synchronously and must not call
// back into the ChatBot.
type Listener func(Event)

// View is the state exposed to the rendering surface
type View struct {
	SessionID string            `json:"session_id"`
	Open      bool              `json:"open"`
	Messages  []session.Message `json:"messages"`
}

// NegotiationView is the host-facing summary of a negotiation; it never
// carries the floor price
type NegotiationView struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	OriginalPrice float64         `json:"original_price"`
	Round         int             `json:"round"`
	LastOffer     *float64        `json:"last_offer,omitempty"`
	Language      language.Locale `json:"language"`
}

func viewOf(s *negotiation.Session) NegotiationView {
	p := s.Product()
	v := NegotiationView{
		ProductID:     p.ID,
		ProductName:   p.Name,
		OriginalPrice: s.OriginalPrice(),
		Round:         s.Round(),
		Language:      s.Language(),
	}
	if offer, ok := s.LastOffer(); ok {
		v.LastOffer = &offer
	}
	return v
}
