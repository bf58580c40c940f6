package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmitter struct {
	rooms  []string
	events []string
}

func (f *fakeEmitter) EmitToRoom(room string, event string, payload interface{}) {
	f.rooms = append(f.rooms, room)
	f.events = append(f.events, event)
}

type fakePush struct {
	sent chan string
}

func (f *fakePush) Send(userID string, eventType string, payload interface{}) error {
	f.sent <- userID
	return nil
}

type fakePresence struct {
	online map[string]bool
}

func (f *fakePresence) IsUserOnline(userID string) bool {
	return f.online[userID]
}

func waitForPush(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case userID := <-ch:
		return userID
	case <-time.After(time.Second):
		t.Fatal("expected a push, got none")
		return ""
	}
}

func assertNoPush(t *testing.T, ch chan string) {
	t.Helper()
	select {
	case userID := <-ch:
		t.Fatalf("unexpected push for %s", userID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotifyAlwaysPushesEvenWhenOnline(t *testing.T) {
	emitter := &fakeEmitter{}
	push := &fakePush{sent: make(chan string, 1)}
	presence := &fakePresence{online: map[string]bool{"user-a": true}}

	n := NewNotifier(emitter, push, presence, nil)
	n.Notify("after_hours:match_saved", "user-a", map[string]string{"matchId": "m1"}, PushAlways)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, "user:user-a", emitter.rooms[0])
	assert.Equal(t, "after_hours:match_saved", emitter.events[0])

	assert.Equal(t, "user-a", waitForPush(t, push.sent))
}

func TestNotifyIfOfflineSkipsOnlineUsers(t *testing.T) {
	emitter := &fakeEmitter{}
	push := &fakePush{sent: make(chan string, 1)}
	presence := &fakePresence{online: map[string]bool{"user-a": true}}

	n := NewNotifier(emitter, push, presence, nil)
	n.Notify("after_hours:new_message", "user-a", map[string]string{"text": "hi"}, PushIfOffline)

	// The socket emit still happens, only the push is skipped
	require.Len(t, emitter.events, 1)
	assertNoPush(t, push.sent)
}

func TestNotifyIfOfflinePushesOfflineUsers(t *testing.T) {
	emitter := &fakeEmitter{}
	push := &fakePush{sent: make(chan string, 1)}
	presence := &fakePresence{online: map[string]bool{}}

	n := NewNotifier(emitter, push, presence, nil)
	n.Notify("after_hours:new_message", "user-b", map[string]string{"text": "hi"}, PushIfOffline)

	assert.Equal(t, "user-b", waitForPush(t, push.sent))
}

func TestNotifyNeverPushes(t *testing.T) {
	emitter := &fakeEmitter{}
	push := &fakePush{sent: make(chan string, 1)}
	presence := &fakePresence{online: map[string]bool{}}

	n := NewNotifier(emitter, push, presence, nil)
	n.Notify("after_hours:user_typing", "user-b", map[string]bool{"isTyping": true}, PushNever)

	require.Len(t, emitter.events, 1)
	assertNoPush(t, push.sent)
}

func TestNotifyWithoutPushSender(t *testing.T) {
	emitter := &fakeEmitter{}
	presence := &fakePresence{online: map[string]bool{}}

	n := NewNotifier(emitter, nil, presence, nil)

	// A nil sender (push disabled) must not panic on any policy
	assert.NotPanics(t, func() {
		n.Notify("after_hours:match_saved", "user-a", map[string]string{}, PushAlways)
	})
	require.Len(t, emitter.events, 1)
}
