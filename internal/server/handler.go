package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ShopMate/internal/catalog"
	"ShopMate/internal/chatbot"
	"ShopMate/internal/language"
)

// Handler exposes the chat to a browser widget
type Handler struct {
	bot    *chatbot.ChatBot
	hub    *Hub
	logger *slog.Logger
}

// NewHandler creates a handler
func NewHandler(bot *chatbot.ChatBot, hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{bot: bot, hub: hub, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

// Health reports liveness and connected widgets
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"widgets": h.hub.Count(),
	})
}

// ListProducts returns the catalog
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.bot.Products(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

// GetProduct returns one product
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.bot.Product(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load product", "product_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

// GetChat returns the rendering state: visibility and the message log
func (h *Handler) GetChat(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.bot.Snapshot())
}

// SendMessage accepts a user message. The bot reply arrives later over the
// websocket or through GET /api/chat.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if !h.bot.Send(r.Context(), payload.Text) {
		h.writeError(w, http.StatusBadRequest, "empty message")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// StartNegotiation starts bargaining for a catalog product
func (h *Handler) StartNegotiation(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID string `json:"product_id"`
		Language  string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if payload.ProductID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product_id")
		return
	}

	var locale language.Locale
	if payload.Language != "" {
		l, ok := language.Parse(payload.Language)
		if !ok {
			h.writeError(w, http.StatusBadRequest, "unsupported language")
			return
		}
		locale = l
	}

	view, err := h.bot.StartNegotiation(r.Context(), payload.ProductID, locale)
	if errors.Is(err, catalog.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to start negotiation", "product_id", payload.ProductID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "could not start negotiation")
		return
	}
	h.writeJSON(w, http.StatusCreated, view)
}

// GetNegotiation returns the negotiation in progress
func (h *Handler) GetNegotiation(w http.ResponseWriter, _ *http.Request) {
	view, ok := h.bot.Negotiation()
	if !ok {
		h.writeError(w, http.StatusNotFound, "no negotiation in progress")
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// CancelNegotiation resets the negotiation unconditionally
func (h *Handler) CancelNegotiation(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]bool{"cancelled": h.bot.CancelNegotiation()})
}

// SetVisibility opens or closes the widget
func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Open *bool `json:"open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	open := false
	if payload.Open == nil {
		open = h.bot.Toggle()
	} else {
		h.bot.SetOpen(*payload.Open)
		open = *payload.Open
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"open": open})
}

// ResetChat starts a new conversation
func (h *Handler) ResetChat(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"session_id": h.bot.Reset()})
}
