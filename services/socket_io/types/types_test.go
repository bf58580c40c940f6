package socketio_types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zishang520/socket.io/v2/socket"
)

func TestRoomNames(t *testing.T) {
	assert.Equal(t, "user:user-1", UserRoom("user-1"))
	assert.Equal(t, "after_hours:match:m-1", MatchRoom("m-1"))
}

func TestRemoveConnectionOnlyDropsOwnSocket(t *testing.T) {
	s := NewSocketServer()
	first := &socket.Socket{}
	second := &socket.Socket{}

	s.AddConnection("user-1", first)
	// The same user connects from a second device; the map tracks the
	// newest socket.
	s.AddConnection("user-1", second)

	// The first device disconnecting must not evict the second's entry.
	s.RemoveConnection("user-1", first)
	conn, ok := s.GetConnection("user-1")
	assert.True(t, ok)
	assert.Same(t, second, conn)

	s.RemoveConnection("user-1", second)
	_, ok = s.GetConnection("user-1")
	assert.False(t, ok)
}
