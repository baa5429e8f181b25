package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Navigator changes the page the shopper is looking at
type Navigator interface {
	NavigateTo(ctx context.Context, route string) error
}

// NegotiationOwner is told when a deal closes so it can drop the product it
// pushed into the chat
type NegotiationOwner interface {
	ClearNegotiation()
}

// Scheduler runs fn after d. Delays are cosmetic pacing; nothing computed by
// the chat engine depends on them.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler schedules with time.AfterFunc
type TimerScheduler struct{}

// After implements Scheduler
func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// ImmediateScheduler runs fn synchronously, ignoring the delay
type ImmediateScheduler struct{}

// After implements Scheduler
func (ImmediateScheduler) After(_ time.Duration, fn func()) {
	fn()
}

// ManualScheduler queues callbacks until Flush is called
type ManualScheduler struct {
	mu      sync.Mutex
	pending []Pending
}

// Pending is a queued callback
type Pending struct {
	Delay time.Duration
	Fn    func()
}

// After implements Scheduler
func (m *ManualScheduler) After(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, Pending{Delay: d, Fn: fn})
}

// Len returns the number of queued callbacks
func (m *ManualScheduler) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Flush runs every queued callback in delay order
func (m *ManualScheduler) Flush() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	// stable insertion sort: equal delays keep scheduling order
	for i := 1; i < len(pending); i++ {
		for j := i; j > 0 && pending[j].Delay < pending[j-1].Delay; j-- {
			pending[j], pending[j-1] = pending[j-1], pending[j]
		}
	}
	for _, p := range pending {
		p.Fn()
	}
}

// Terminal prints host notices for the REPL
type Terminal struct {
	out io.Writer
	mu  sync.Mutex
}

// NewTerminal creates a terminal host writing to out
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// NavigateTo implements Navigator
func (t *Terminal) NavigateTo(_ context.Context, route string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.out, "→ navigating to %s\n", route)
	return err
}

// ClearNegotiation implements NegotiationOwner
func (t *Terminal) ClearNegotiation() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, "[negotiation closed]")
}

// MultiNavigator fans navigation out to several hosts
type MultiNavigator []Navigator

// NavigateTo implements Navigator, returning every failure joined
func (m MultiNavigator) NavigateTo(ctx context.Context, route string) error {
	var errs []error
	for _, n := range m {
		if err := n.NavigateTo(ctx, route); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MultiOwner notifies several negotiation owners
type MultiOwner []NegotiationOwner

// ClearNegotiation implements NegotiationOwner
func (m MultiOwner) ClearNegotiation() {
	for _, o := range m {
		o.ClearNegotiation()
	}
}

// SyncWriter serialises writes from the REPL and from scheduled callbacks
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w
func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

// Write implements io.Writer
func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
