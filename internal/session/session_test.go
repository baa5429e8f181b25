package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendKeepsArrivalOrder(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := New(start)

	s.Append(SenderBot, "hi", start)
	s.Append(SenderUser, "show me electronics", start)
	s.Append(SenderBot, "Great!", start.Add(500*time.Millisecond))

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, []Sender{SenderBot, SenderUser, SenderBot}, []Sender{msgs[0].Sender, msgs[1].Sender, msgs[2].Sender})
	assert.Equal(t, "show me electronics", msgs[1].Text)

	// ids are unique and sort in append order, even within one millisecond
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
	assert.Less(t, msgs[0].ID, msgs[1].ID)
	assert.Less(t, msgs[1].ID, msgs[2].ID)
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := New(time.Now())
	s.Append(SenderUser, "hello", time.Now())

	msgs := s.Messages()
	msgs[0].Text = "changed"

	assert.Equal(t, "hello", s.Messages()[0].Text)
	assert.Equal(t, 1, s.Len())
}

func TestNewSessionIDs(t *testing.T) {
	a := New(time.Now())
	b := New(time.Now())

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Zero(t, a.Len())
}
