package ws

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	slot := 2
	msg, err := NewMessage(TypeSubmitAnswer, "req-1", SubmitAnswerPayload{Slot: &slot})
	require.NoError(t, err)
	assert.Equal(t, TypeSubmitAnswer, msg.Type)
	assert.Equal(t, "req-1", msg.RequestID)
	assert.JSONEq(t, `{"slot":2}`, string(msg.Payload))

	msg, err = NewMessage(TypePong, "", nil)
	require.NoError(t, err)
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(data))

	_, err = NewMessage(TypeGameState, "", make(chan int))
	assert.Error(t, err)
}

func TestHubReplacesConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	id := uuid.New()

	err := hub.Send(id, Message{Type: TypePong})
	assert.ErrorIs(t, err, ErrConnectionNotFound)

	first := NewConnection(nil, zerolog.Nop())
	hub.Register(id, first)
	require.NoError(t, hub.Send(id, Message{Type: TypePong}))
	assert.Len(t, first.sendCh, 1)

	second := NewConnection(nil, zerolog.Nop())
	hub.Register(id, second)
	assert.Equal(t, 1, hub.Len())
	assert.ErrorIs(t, first.Send(Message{Type: TypePong}), ErrConnectionClosed)

	// A stale connection leaving must not drop its replacement.
	hub.Unregister(id, first)
	assert.Equal(t, 1, hub.Len())
	require.NoError(t, hub.Send(id, Message{Type: TypePong}))
	assert.Len(t, second.sendCh, 1)

	hub.Unregister(id, second)
	assert.Equal(t, 0, hub.Len())
	assert.ErrorIs(t, second.Send(Message{Type: TypePong}), ErrConnectionClosed)
}

func TestConnectionQueueFull(t *testing.T) {
	conn := NewConnection(nil, zerolog.Nop())
	for i := 0; i < cap(conn.sendCh); i++ {
		require.NoError(t, conn.Send(Message{Type: TypePong}))
	}
	assert.ErrorIs(t, conn.Send(Message{Type: TypePong}), ErrSendQueueFull)
}
