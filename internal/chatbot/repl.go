package chatbot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"ShopMate/internal/catalog"
	"ShopMate/internal/language"
	"ShopMate/internal/responder"
	"ShopMate/internal/session"
)

const prompt = "You: "

// repl is the terminal front end: it plays the host page (product picks,
// cancellation) and renders bot messages as they arrive
type repl struct {
	cb  *ChatBot
	in  io.Reader
	out io.Writer

	// set when a bot message already re-printed the prompt
	prompted atomic.Bool
}

func newREPL(cb *ChatBot, in io.Reader, out io.Writer) *repl {
	return &repl{cb: cb, in: in, out: out}
}

func (r *repl) run(ctx context.Context) error {
	snap := r.cb.Snapshot()

	fmt.Fprintln(r.out, "=== ShopMate Assistant ===")
	fmt.Fprintf(r.out, "Session: %s\n", snap.SessionID)
	fmt.Fprintln(r.out, "Type /help for commands, /quit to exit")
	fmt.Fprintln(r.out)
	for _, msg := range snap.Messages {
		r.render(msg)
	}

	r.cb.Subscribe(func(e Event) {
		if e.Type == EventMessage && e.Message.Sender == session.SenderBot {
			r.render(*e.Message)
			r.showPrompt()
		}
	})

	scanner := bufio.NewScanner(r.in)
	r.showPrompt()

	for scanner.Scan() {
		r.prompted.Store(false)
		if ctx.Err() != nil {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			r.showPrompt()
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldQuit, err := r.handleCommand(ctx, input)
			if err != nil {
				fmt.Fprintf(r.out, "Error: %v\n", err)
				r.cb.logger.Error("command error", "command", input, "error", err)
			}
			if shouldQuit {
				break
			}
			if !r.prompted.Load() {
				r.showPrompt()
			}
			continue
		}

		r.cb.Send(ctx, input)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Fprintln(r.out, "Goodbye!")
	return nil
}

func (r *repl) showPrompt() {
	fmt.Fprint(r.out, prompt)
	r.prompted.Store(true)
}

func (r *repl) render(msg session.Message) {
	if msg.Sender != session.SenderBot {
		return
	}
	fmt.Fprintf(r.out, "ShopMate: %s\n\n", msg.Text)
}

// handleCommand handles special commands
func (r *repl) handleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/quit", "/exit":
		return true, nil

	case "/products":
		products, err := r.cb.Products(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to list products: %w", err)
		}
		fmt.Fprintln(r.out, "\nProducts:")
		for i, p := range products {
			fmt.Fprintf(r.out, "%d. %-10s %-22s ₹%s (%s)\n", i+1, p.ID, p.Name, responder.FormatPrice(p.Price), p.Category)
		}
		fmt.Fprintln(r.out)
		return false, nil

	case "/negotiate", "/bargain":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /negotiate <product-id> [en|hi|kn]")
		}
		locale := language.Locale(r.cb.config.DefaultLocale)
		if len(parts) > 2 {
			l, ok := language.Parse(parts[2])
			if !ok {
				return false, fmt.Errorf("unsupported language: %s", parts[2])
			}
			locale = l
		}
		if _, err := r.cb.StartNegotiation(ctx, parts[1], locale); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return false, fmt.Errorf("unknown product %s (see /products)", parts[1])
			}
			return false, err
		}
		return false, nil

	case "/cancel":
		if r.cb.CancelNegotiation() {
			fmt.Fprintln(r.out, "Negotiation cancelled.")
		} else {
			fmt.Fprintln(r.out, "No negotiation in progress.")
		}
		return false, nil

	case "/status":
		state := "closed"
		if r.cb.IsOpen() {
			state = "open"
		}
		fmt.Fprintf(r.out, "Widget: %s\n", state)
		if v, ok := r.cb.Negotiation(); ok {
			fmt.Fprintf(r.out, "Negotiating %s (₹%s), round %d", v.ProductName, responder.FormatPrice(v.OriginalPrice), v.Round)
			if v.LastOffer != nil {
				fmt.Fprintf(r.out, ", last offer ₹%s", responder.FormatPrice(*v.LastOffer))
			}
			fmt.Fprintln(r.out)
		} else {
			fmt.Fprintln(r.out, "No negotiation in progress.")
		}
		return false, nil

	case "/history":
		snap := r.cb.Snapshot()
		fmt.Fprintf(r.out, "\nSession %s, %d messages:\n", snap.SessionID, len(snap.Messages))
		for _, msg := range snap.Messages {
			fmt.Fprintf(r.out, "[%s] %-4s %s\n", msg.Timestamp.Format("15:04:05"), msg.Sender, msg.Text)
		}
		fmt.Fprintln(r.out)
		return false, nil

	case "/open":
		r.cb.SetOpen(true)
		fmt.Fprintln(r.out, "Widget opened.")
		return false, nil

	case "/close":
		r.cb.SetOpen(false)
		fmt.Fprintln(r.out, "Widget closed.")
		return false, nil

	case "/toggle":
		if r.cb.Toggle() {
			fmt.Fprintln(r.out, "Widget opened.")
		} else {
			fmt.Fprintln(r.out, "Widget closed.")
		}
		return false, nil

	case "/new-session":
		id := r.cb.Reset()
		fmt.Fprintln(r.out, "Started new session:", id)
		return false, nil

	case "/help":
		fmt.Fprintln(r.out, "Available commands:")
		fmt.Fprintln(r.out, "  /quit, /exit                 - Exit the assistant")
		fmt.Fprintln(r.out, "  /products                    - List catalog products")
		fmt.Fprintln(r.out, "  /negotiate <id> [en|hi|kn]   - Start bargaining for a product")
		fmt.Fprintln(r.out, "  /cancel                      - Cancel the current negotiation")
		fmt.Fprintln(r.out, "  /status                      - Show widget and negotiation state")
		fmt.Fprintln(r.out, "  /history                     - Show the conversation log")
		fmt.Fprintln(r.out, "  /open, /close, /toggle       - Change widget visibility")
		fmt.Fprintln(r.out, "  /new-session                 - Start a new conversation")
		fmt.Fprintln(r.out, "  /help                        - Show this help message")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command: %s (try /help)", parts[0])
	}
}
