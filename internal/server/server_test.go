package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShopMate/internal/catalog"
	"ShopMate/internal/chatbot"
	"ShopMate/internal/config"
	"ShopMate/internal/host"
	"ShopMate/internal/session"
)

type fixture struct {
	bot *chatbot.ChatBot
	hub *Hub
	srv *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	store, err := catalog.Open(ctx, catalog.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(ctx))
	_, err = store.Seed(ctx, catalog.DefaultProducts())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var bot *chatbot.ChatBot
	hub := NewHub(logger, func() chatbot.View { return bot.Snapshot() })

	bot, err = chatbot.New(config.Default(), chatbot.Deps{
		Logger:    logger,
		Catalog:   store,
		Navigator: hub,
		Owner:     hub,
		Scheduler: host.ImmediateScheduler{},
	})
	require.NoError(t, err)
	bot.Subscribe(hub.Listen)

	srv := httptest.NewServer(NewRouter(NewHandler(bot, hub, logger), []string{"*"}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return &fixture{bot: bot, hub: hub, srv: srv}
}

func (f *fixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestProducts(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products := decode[[]catalog.Product](t, resp)
	assert.Len(t, products, len(catalog.DefaultProducts()))

	resp = f.do(t, http.MethodGet, "/api/products/elec-001", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[catalog.Product](t, resp)
	assert.Equal(t, "Wireless Headphones", p.Name)
	assert.Equal(t, 1000.0, p.Price)

	resp = f.do(t, http.MethodGet, "/api/products/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSendMessage(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/api/chat/messages", `{"text":"help"}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/chat", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[chatbot.View](t, resp)
	require.Len(t, view.Messages, 3)
	assert.Equal(t, "help", view.Messages[1].Text)
	assert.NotEmpty(t, view.SessionID)
}

func TestSendMessageRejectsBlank(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/api/chat/messages", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/chat/messages", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNegotiationLifecycle(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/chat/negotiation", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/chat/negotiation", `{"product_id":"elec-001","language":"en"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	view := decode[chatbot.NegotiationView](t, resp)
	assert.Equal(t, "elec-001", view.ProductID)
	assert.Equal(t, 1000.0, view.OriginalPrice)
	assert.Nil(t, view.LastOffer)
	assert.True(t, f.bot.IsOpen())

	f.do(t, http.MethodPost, "/api/chat/messages", `{"text":"too costly"}`)

	resp = f.do(t, http.MethodGet, "/api/chat/negotiation", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decode[chatbot.NegotiationView](t, resp)
	assert.Equal(t, 1, view.Round)
	require.NotNil(t, view.LastOffer)
	assert.Equal(t, 920.0, *view.LastOffer)

	resp = f.do(t, http.MethodDelete, "/api/chat/negotiation", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]bool{"cancelled": true}, decode[map[string]bool](t, resp))

	resp = f.do(t, http.MethodDelete, "/api/chat/negotiation", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]bool{"cancelled": false}, decode[map[string]bool](t, resp))
}

func TestStartNegotiationErrors(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/api/chat/negotiation", `{"product_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/chat/negotiation", `{"product_id":"elec-001","language":"fr"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/chat/negotiation", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVisibility(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/api/chat/visibility", `{"open":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[map[string]bool](t, resp)["open"])

	resp = f.do(t, http.MethodPost, "/api/chat/visibility", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[map[string]bool](t, resp)["open"])
	assert.False(t, f.bot.IsOpen())
}

func TestResetChat(t *testing.T) {
	f := newFixture(t)
	before := f.bot.Snapshot().SessionID

	f.do(t, http.MethodPost, "/api/chat/messages", `{"text":"hello"}`)
	resp := f.do(t, http.MethodDelete, "/api/chat", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	after := decode[map[string]string](t, resp)["session_id"]
	assert.NotEqual(t, before, after)
	assert.Len(t, f.bot.Snapshot().Messages, 1)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.srv.URL+"/api/chat/messages", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

type wireFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func TestWebsocketStreamsNavigation(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first wireFrame
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "snapshot", first.Type)
	assert.Equal(t, 1, f.hub.Count())

	resp := f.do(t, http.MethodPost, "/api/chat/messages", `{"text":"show me electronics"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var types []string
	var route string
	for route == "" {
		var frame wireFrame
		require.NoError(t, conn.ReadJSON(&frame))
		types = append(types, frame.Type)
		if frame.Type == "navigate" {
			var payload map[string]string
			require.NoError(t, json.Unmarshal(frame.Payload, &payload))
			route = payload["route"]
		}
	}

	assert.Equal(t, "/electronics", route)
	assert.Equal(t, []string{"message", "message", "navigate"}, types)
}

func TestNavigateWithoutClients(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	assert.ErrorIs(t, hub.NavigateTo(context.Background(), "/cart"), ErrNoClients)
}

func TestHubSkipsMessagesAlreadyInSnapshot(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	fresh := &client{send: make(chan Frame, sendBuffer)}
	caughtUp := &client{send: make(chan Frame, sendBuffer), after: "01J00000000000000000000002"}
	hub.clients[fresh] = struct{}{}
	hub.clients[caughtUp] = struct{}{}

	old := session.Message{ID: "01J00000000000000000000002", Text: "in snapshot", Sender: session.SenderBot}
	hub.Listen(chatbot.Event{Type: chatbot.EventMessage, Message: &old})

	next := session.Message{ID: "01J00000000000000000000003", Text: "after snapshot", Sender: session.SenderUser}
	hub.Listen(chatbot.Event{Type: chatbot.EventMessage, Message: &next})

	assert.Len(t, fresh.send, 2)
	require.Len(t, caughtUp.send, 1)
	frame := <-caughtUp.send
	assert.Equal(t, "message", frame.Type)
	assert.Equal(t, &next, frame.Payload)
}

func TestHubResetSnapshotMovesWatermark(t *testing.T) {
	view := chatbot.View{
		SessionID: "s2",
		Messages:  []session.Message{{ID: "01J00000000000000000000009", Sender: session.SenderBot}},
	}
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), func() chatbot.View { return view })

	c := &client{send: make(chan Frame, sendBuffer)}
	hub.clients[c] = struct{}{}

	hub.Listen(chatbot.Event{Type: chatbot.EventReset})

	require.Len(t, c.send, 1)
	assert.Equal(t, "snapshot", (<-c.send).Type)
	assert.Equal(t, "01J00000000000000000000009", c.after)
}
