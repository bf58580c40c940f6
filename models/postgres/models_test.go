package postgres_test

import (
	"testing"
	"time"

	"vlvt/models/postgres"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePair(t *testing.T) {
	a, b := postgres.NormalizePair("user-b", "user-a")
	assert.Equal(t, "user-a", a)
	assert.Equal(t, "user-b", b)

	// Already ordered pairs come back unchanged
	a, b = postgres.NormalizePair("user-a", "user-b")
	assert.Equal(t, "user-a", a)
	assert.Equal(t, "user-b", b)
}

func TestEphemeralMatchActivity(t *testing.T) {
	now := time.Now()
	declined := "user-a"

	match := postgres.EphemeralMatch{
		ID:        "m1",
		UserID1:   "user-a",
		UserID2:   "user-b",
		ExpiresAt: now.Add(30 * time.Minute),
	}
	assert.True(t, match.IsActiveAt(now))

	match.ExpiresAt = now.Add(-time.Second)
	assert.False(t, match.IsActiveAt(now), "expired match must not be active")

	match.ExpiresAt = now.Add(30 * time.Minute)
	match.DeclinedBy = &declined
	assert.False(t, match.IsActiveAt(now), "declined match must not be active")
}

func TestEphemeralMatchParticipants(t *testing.T) {
	match := postgres.EphemeralMatch{
		ID:      "m1",
		UserID1: "user-a",
		UserID2: "user-b",
	}

	assert.True(t, match.IsParticipant("user-a"))
	assert.True(t, match.IsParticipant("user-b"))
	assert.False(t, match.IsParticipant("user-c"))

	assert.Equal(t, "user-b", match.OtherParticipant("user-a"))
	assert.Equal(t, "user-a", match.OtherParticipant("user-b"))
}
