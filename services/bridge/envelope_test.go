package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventMessageValid(t *testing.T) {
	raw := `{
		"type": "after_hours:match",
		"targetUserId": "user-a",
		"payload": {"matchId": "m1", "partner": {"id": "user-b"}},
		"timestamp": "2026-09-01T22:00:00Z"
	}`

	msg, err := ParseEventMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, "after_hours:match", msg.Type)
	assert.Equal(t, "user-a", msg.TargetUserID)
	assert.JSONEq(t, `{"matchId": "m1", "partner": {"id": "user-b"}}`, string(msg.Payload))
}

func TestParseEventMessageRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"missing type", `{"targetUserId": "u", "payload": {}}`},
		{"missing target", `{"type": "after_hours:match", "payload": {}}`},
		{"missing payload", `{"type": "after_hours:match", "targetUserId": "u"}`},
		{"null payload", `{"type": "after_hours:match", "targetUserId": "u", "payload": null}`},
		{"type not in allow-list", `{"type": "not_a_real_event", "targetUserId": "u", "payload": {}}`},
		{"internal event cannot be injected", `{"type": "after_hours:new_message", "targetUserId": "u", "payload": {}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := ParseEventMessage(tc.raw)
			assert.Error(t, err)
			assert.Nil(t, msg)
		})
	}
}

func TestAllowedEventType(t *testing.T) {
	for _, allowed := range []string{
		"after_hours:match",
		"after_hours:no_matches",
		"after_hours:match_expired",
		"after_hours:session_expiring",
		"after_hours:session_expired",
	} {
		assert.True(t, AllowedEventType(allowed), allowed)
	}

	assert.False(t, AllowedEventType("after_hours:new_message"))
	assert.False(t, AllowedEventType("after_hours:match_saved"))
	assert.False(t, AllowedEventType(""))
}
