package chatbot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"ShopMate/internal/cache"
	"ShopMate/internal/catalog"
	"ShopMate/internal/config"
	"ShopMate/internal/host"
	"ShopMate/internal/intent"
	"ShopMate/internal/language"
	"ShopMate/internal/negotiation"
	"ShopMate/internal/responder"
	"ShopMate/internal/session"
)

// Catalog supplies the products a negotiation can be started for
type Catalog interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
	List(ctx context.Context) ([]catalog.Product, error)
}

// Deps are the collaborators a ChatBot is wired with. Nil telemetry falls
// back to no-op implementations; Navigator, Owner and Scheduler are required.
type Deps struct {
	Logger    *slog.Logger
	Tracer    trace.Tracer
	Meter     metric.Meter
	Catalog   Catalog
	Navigator host.Navigator
	Owner     host.NegotiationOwner
	Scheduler host.Scheduler
	Clock     func() time.Time
}

// ChatBot owns one conversation: its message log, the negotiation session
// and the widget's open/closed flag
type ChatBot struct {
	config    config.Config
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   instruments
	catalog   Catalog
	generator *responder.Generator
	cache     *cache.ReplyCache
	navigator host.Navigator
	owner     host.NegotiationOwner
	scheduler host.Scheduler
	now       func() time.Time

	mu          sync.Mutex
	session     *session.Session
	negotiation negotiation.Session
	open        bool
	listeners   []Listener
}

type instruments struct {
	messages    metric.Int64Counter
	rounds      metric.Int64Counter
	deals       metric.Int64Counter
	navigations metric.Int64Counter
	cacheHits   metric.Int64Counter
}

// New creates a ChatBot
func New(cfg config.Config, deps Deps) (*ChatBot, error) {
	if deps.Navigator == nil || deps.Owner == nil || deps.Scheduler == nil {
		return nil, fmt.Errorf("navigator, negotiation owner and scheduler are required")
	}
	if err := cfg.Negotiation.Validate(); err != nil {
		return nil, err
	}

	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Tracer == nil {
		deps.Tracer = tracenoop.NewTracerProvider().Tracer("shopmate")
	}
	if deps.Meter == nil {
		deps.Meter = metricnoop.NewMeterProvider().Meter("shopmate")
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	metrics, err := newInstruments(deps.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}

	generator := responder.New(
		negotiation.NewEngine(cfg.Negotiation),
		intent.NewRouter(intent.DefaultRules),
	)

	cb := &ChatBot{
		config:    cfg,
		logger:    deps.Logger,
		tracer:    deps.Tracer,
		metrics:   metrics,
		catalog:   deps.Catalog,
		generator: generator,
		cache:     cache.New(cfg.CacheTTL),
		navigator: deps.Navigator,
		owner:     deps.Owner,
		scheduler: deps.Scheduler,
		now:       deps.Clock,
	}
	cb.session = cb.newSession()

	return cb, nil
}

func newInstruments(meter metric.Meter) (instruments, error) {
	var m instruments
	var err error

	if m.messages, err = meter.Int64Counter("shopmate.messages",
		metric.WithDescription("Chat messages appended to the conversation")); err != nil {
		return m, err
	}
	if m.rounds, err = meter.Int64Counter("shopmate.negotiation.rounds",
		metric.WithDescription("Counteroffers made")); err != nil {
		return m, err
	}
	if m.deals, err = meter.Int64Counter("shopmate.negotiation.deals",
		metric.WithDescription("Negotiations closed with a deal")); err != nil {
		return m, err
	}
	if m.navigations, err = meter.Int64Counter("shopmate.navigations",
		metric.WithDescription("Navigation requests sent to the host")); err != nil {
		return m, err
	}
	if m.cacheHits, err = meter.Int64Counter("shopmate.cache.hits",
		metric.WithDescription("Routing replies served from cache")); err != nil {
		return m, err
	}
	return m, nil
}

// newSession creates a conversation log opened with the greeting
func (cb *ChatBot) newSession() *session.Session {
	now := cb.now()
	sess := session.New(now)
	sess.Append(session.SenderBot, cb.generator.Greeting(cb.defaultLocale()), now)
	cb.logger.Info("created new session", "session_id", sess.ID)
	return sess
}

func (cb *ChatBot) defaultLocale() language.Locale {
	if l, ok := language.Parse(cb.config.DefaultLocale); ok {
		return l
	}
	return language.English
}

// Subscribe registers l for every subsequent event
func (cb *ChatBot) Subscribe(l Listener) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.listeners = append(cb.listeners, l)
}

// notify must be called without holding mu
func (cb *ChatBot) notify(events ...Event) {
	cb.mu.Lock()
	listeners := make([]Listener, len(cb.listeners))
	copy(listeners, cb.listeners)
	cb.mu.Unlock()

	for _, e := range events {
		for _, l := range listeners {
			l(e)
		}
	}
}

// Send handles a user message. The reply is decided immediately; it is
// appended to the log after the typing delay and any navigation follows
// after the navigation delay. Blank messages are ignored and Send reports
// false.
func (cb *ChatBot) Send(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	ctx, span := cb.tracer.Start(ctx, "chat.send")
	defer span.End()

	cb.mu.Lock()
	now := cb.now()
	sess := cb.session
	userMsg := sess.Append(session.SenderUser, text, now)
	reply, cached := cb.replyLocked(text, now)
	sessionID := sess.ID
	cb.mu.Unlock()

	cb.metrics.messages.Add(ctx, 1, metric.WithAttributes(attribute.String("sender", string(session.SenderUser))))
	cb.notify(Event{Type: EventMessage, Message: &userMsg})

	span.SetAttributes(
		attribute.String("chat.locale", string(reply.Locale)),
		attribute.String("chat.outcome", reply.Outcome.Kind.String()),
		attribute.Bool("chat.cached", cached),
	)

	switch reply.Outcome.Kind {
	case negotiation.Counter:
		cb.metrics.rounds.Add(ctx, 1)
		cb.logger.Info("counteroffer",
			"session_id", sessionID,
			"round", reply.Outcome.Round,
			"discount_percent", reply.Outcome.DiscountPercent,
			"offer", reply.Outcome.Price)
	case negotiation.Deal:
		cb.metrics.deals.Add(ctx, 1)
		cb.logger.Info("deal confirmed", "session_id", sessionID, "price", reply.Outcome.Price)
	}

	if reply.ClearNegotiation {
		cb.owner.ClearNegotiation()
		cb.notify(Event{Type: EventNegotiation})
	}

	botText := reply.Text
	cb.scheduler.After(cb.config.TypingDelay, func() {
		cb.appendBot(sess, botText)
	})

	if reply.Navigation != nil {
		route := reply.Navigation.Route
		navCtx := context.WithoutCancel(ctx)
		cb.metrics.navigations.Add(ctx, 1, metric.WithAttributes(attribute.String("route", route)))
		cb.scheduler.After(cb.config.NavigationDelay, func() {
			if !cb.current(sess) {
				cb.logger.Info("navigation dropped after reset", "session_id", sessionID, "route", route)
				return
			}
			if err := cb.navigator.NavigateTo(navCtx, route); err != nil {
				cb.logger.Warn("navigation failed", "route", route, "error", err)
				return
			}
			cb.logger.Info("navigated", "route", route)
		})
	}

	return true
}

// replyLocked decides the reply for text. Routing replies do not depend on
// conversation state and are served from the cache when possible.
func (cb *ChatBot) replyLocked(text string, now time.Time) (responder.Reply, bool) {
	if cb.negotiation.Active() {
		return cb.generator.Generate(text, &cb.negotiation), false
	}

	key := cache.GenerateCacheKey(text)
	if reply, ok := cb.cache.Load(key, now); ok {
		cb.metrics.cacheHits.Add(context.Background(), 1)
		return reply, true
	}

	reply := cb.generator.Generate(text, &cb.negotiation)
	cb.cache.Store(key, reply, now)
	return reply, false
}

// current reports whether sess is still the live conversation
func (cb *ChatBot) current(sess *session.Session) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.session == sess
}

// appendBot adds a bot message to sess and publishes it. Replies queued for
// a conversation that has since been reset are dropped.
func (cb *ChatBot) appendBot(sess *session.Session, text string) (session.Message, bool) {
	cb.mu.Lock()
	if cb.session != sess {
		cb.mu.Unlock()
		cb.logger.Info("reply dropped after reset", "session_id", sess.ID)
		return session.Message{}, false
	}
	msg := sess.Append(session.SenderBot, text, cb.now())
	cb.mu.Unlock()

	cb.metrics.messages.Add(context.Background(), 1, metric.WithAttributes(attribute.String("sender", string(session.SenderBot))))
	cb.notify(Event{Type: EventMessage, Message: &msg})
	return msg, true
}

// StartNegotiation looks productID up in the catalog and starts bargaining for it
func (cb *ChatBot) StartNegotiation(ctx context.Context, productID string, locale language.Locale) (NegotiationView, error) {
	if cb.catalog == nil {
		return NegotiationView{}, fmt.Errorf("no catalog configured")
	}

	product, err := cb.catalog.Get(ctx, productID)
	if err != nil {
		return NegotiationView{}, fmt.Errorf("failed to start negotiation: %w", err)
	}

	return cb.StartNegotiationFor(product, locale), nil
}

// StartNegotiationFor starts bargaining for p, replacing any negotiation in
// progress. The widget is opened and the opener is appended right away.
// An unsupported locale selects the configured default.
func (cb *ChatBot) StartNegotiationFor(p catalog.Product, locale language.Locale) NegotiationView {
	if !locale.Valid() {
		locale = cb.defaultLocale()
	}

	cb.mu.Lock()
	replaced := cb.negotiation.Active()
	cb.negotiation = cb.generator.Engine().Start(p, cb.config.Negotiation.MaxDiscountPercent, locale)
	wasOpen := cb.open
	cb.open = true
	msg := cb.session.Append(session.SenderBot, cb.generator.NegotiationOpener(p, locale), cb.now())
	view := viewOf(&cb.negotiation)
	sessionID := cb.session.ID
	cb.mu.Unlock()

	cb.logger.Info("negotiation started",
		"session_id", sessionID,
		"product_id", p.ID,
		"original_price", view.OriginalPrice,
		"locale", locale,
		"replaced", replaced)

	events := []Event{{Type: EventNegotiation, Negotiation: &view}}
	if !wasOpen {
		events = append(events, Event{Type: EventVisibility, Open: true})
	}
	events = append(events, Event{Type: EventMessage, Message: &msg})
	cb.notify(events...)

	return view
}

// CancelNegotiation drops any negotiation in progress. It reports whether
// one was active.
func (cb *ChatBot) CancelNegotiation() bool {
	cb.mu.Lock()
	active := cb.negotiation.Active()
	round := cb.negotiation.Round()
	cb.negotiation.Reset()
	cb.mu.Unlock()

	if !active {
		return false
	}

	cb.logger.Info("negotiation cancelled", "round", round)
	cb.notify(Event{Type: EventNegotiation})
	return true
}

// Negotiation returns the negotiation in progress, if any
func (cb *ChatBot) Negotiation() (NegotiationView, bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.negotiation.Active() {
		return NegotiationView{}, false
	}
	return viewOf(&cb.negotiation), true
}

// Products lists the catalog
func (cb *ChatBot) Products(ctx context.Context) ([]catalog.Product, error) {
	if cb.catalog == nil {
		return nil, fmt.Errorf("no catalog configured")
	}
	return cb.catalog.List(ctx)
}

// Product returns one catalog product
func (cb *ChatBot) Product(ctx context.Context, id string) (catalog.Product, error) {
	if cb.catalog == nil {
		return catalog.Product{}, fmt.Errorf("no catalog configured")
	}
	return cb.catalog.Get(ctx, id)
}

// SetOpen shows or hides the widget
func (cb *ChatBot) SetOpen(open bool) {
	cb.mu.Lock()
	changed := cb.open != open
	cb.open = open
	cb.mu.Unlock()

	if changed {
		cb.notify(Event{Type: EventVisibility, Open: open})
	}
}

// Toggle flips the widget's visibility and returns the new state
func (cb *ChatBot) Toggle() bool {
	cb.mu.Lock()
	cb.open = !cb.open
	open := cb.open
	cb.mu.Unlock()

	cb.notify(Event{Type: EventVisibility, Open: open})
	return open
}

// IsOpen reports whether the widget is visible
func (cb *ChatBot) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.open
}

// Snapshot returns what the rendering surface needs: visibility and the log
func (cb *ChatBot) Snapshot() View {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return View{
		SessionID: cb.session.ID,
		Open:      cb.open,
		Messages:  cb.session.Messages(),
	}
}

// Reset starts a new conversation, discarding the log and any negotiation
func (cb *ChatBot) Reset() string {
	sess := cb.newSession()

	cb.mu.Lock()
	cb.session = sess
	cb.negotiation.Reset()
	cb.mu.Unlock()

	cb.notify(Event{Type: EventNegotiation}, Event{Type: EventReset})
	return sess.ID
}

// Run starts the interactive terminal chat
func (cb *ChatBot) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	return newREPL(cb, in, out).run(ctx)
}
