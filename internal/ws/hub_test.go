package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_RegisterUnregisterCounts(t *testing.T) {
	h := NewHub()
	assert.Equal(t, 0, h.ConnectionCount())

	// Two tabs for the same user plus one for another.
	a1 := NewClient("user-a", nil)
	a2 := NewClient("user-a", nil)
	b1 := NewClient("user-b", nil)
	h.Register(a1)
	h.Register(a2)
	h.Register(b1)
	assert.Equal(t, 3, h.ConnectionCount())

	h.Unregister(a1)
	assert.Equal(t, 2, h.ConnectionCount())

	h.Unregister(a2)
	h.Unregister(b1)
	assert.Equal(t, 0, h.ConnectionCount())
}

func TestHub_IgnoresNilAndAnonymousClients(t *testing.T) {
	h := NewHub()

	assert.NotPanics(t, func() {
		h.Register(nil)
		h.Register(NewClient("", nil))
		h.Unregister(nil)
	})
	assert.Equal(t, 0, h.ConnectionCount())
}

func TestHub_UnregisterUnknownClientIsNoOp(t *testing.T) {
	h := NewHub()
	known := NewClient("user-a", nil)
	h.Register(known)

	stranger := NewClient("user-a", nil)
	h.Unregister(stranger)

	assert.Equal(t, 1, h.ConnectionCount())
}

func TestClient_EnqueueAfterCloseReturnsFalse(t *testing.T) {
	h := NewHub()
	c := NewClient("user-a", nil)
	h.Register(c)

	assert.True(t, c.Enqueue([]byte(`{"kind":"NewTicket"}`)))

	h.Unregister(c)

	var ok bool
	assert.NotPanics(t, func() {
		ok = c.Enqueue([]byte(`{"kind":"TicketResolved"}`))
	})
	assert.False(t, ok)
}

func TestClient_EnqueueDropsWhenBufferFull(t *testing.T) {
	c := NewClient("user-a", nil)

	for i := 0; i < cap(c.send); i++ {
		assert.True(t, c.Enqueue([]byte("msg")))
	}
	assert.False(t, c.Enqueue([]byte("one too many")))

	// Drain one slot and the queue accepts again.
	<-c.send
	assert.True(t, c.Enqueue([]byte("msg")))
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	c := NewClient("user-a", nil)

	assert.NotPanics(t, func() {
		c.Close()
		c.Close()
	})
	assert.False(t, c.Enqueue([]byte("msg")))
}
