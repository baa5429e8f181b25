package session

import (
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Sender identifies who wrote a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message represents a single chat message
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Session represents a chat session: an append-only, ordered message log.
// It is not safe for concurrent use; the owner serialises access.
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`

	messages []Message
	entropy  io.Reader
}

// New creates an empty session
func New(start time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartTime: start,
		messages:  []Message{},
		entropy:   ulid.Monotonic(rand.New(rand.NewSource(start.UnixNano())), 0),
	}
}

// Append adds a message to the end of the log and returns it
func (s *Session) Append(sender Sender, text string, at time.Time) Message {
	msg := Message{
		ID:        ulid.MustNew(ulid.Timestamp(at), s.entropy).String(),
		Text:      text,
		Sender:    sender,
		Timestamp: at,
	}
	s.messages = append(s.messages, msg)
	return msg
}

// Messages returns a copy of the log in arrival order
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the log
func (s *Session) Len() int {
	return len(s.messages)
}
