package after_hours

import (
	"testing"
	"time"

	models "vlvt/models/postgres"

	"github.com/stretchr/testify/assert"
)

func TestValidMatchID(t *testing.T) {
	assert.True(t, ValidMatchID("a81bc81b-dead-4e5d-abff-90865d1e13b1"))

	assert.False(t, ValidMatchID(""))
	assert.False(t, ValidMatchID("m1"))
	assert.False(t, ValidMatchID("1 OR 1=1"))
	assert.False(t, ValidMatchID("a81bc81b-dead-4e5d-abff-90865d1e13b1; DROP TABLE"))
}

func TestEvaluateAccess(t *testing.T) {
	now := time.Now()
	declined := "user-b"

	active := &models.EphemeralMatch{
		ID:        "a81bc81b-dead-4e5d-abff-90865d1e13b1",
		UserID1:   "user-a",
		UserID2:   "user-b",
		ExpiresAt: now.Add(time.Hour),
	}

	assert.Equal(t, MatchNotFound, EvaluateAccess(nil, "user-a", now))
	assert.Equal(t, MatchActive, EvaluateAccess(active, "user-a", now))
	assert.Equal(t, MatchActive, EvaluateAccess(active, "user-b", now))
	assert.Equal(t, MatchUnauthorized, EvaluateAccess(active, "user-c", now))

	expired := *active
	expired.ExpiresAt = now.Add(-time.Minute)
	assert.Equal(t, MatchExpired, EvaluateAccess(&expired, "user-a", now))

	blocked := *active
	blocked.DeclinedBy = &declined
	assert.Equal(t, MatchDeclined, EvaluateAccess(&blocked, "user-a", now))

	// Declined wins over expired so a blocked match never reads as merely
	// expired to its participants
	both := *active
	both.ExpiresAt = now.Add(-time.Minute)
	both.DeclinedBy = &declined
	assert.Equal(t, MatchDeclined, EvaluateAccess(&both, "user-a", now))

	// Non-participants are unauthorized no matter the match state
	assert.Equal(t, MatchUnauthorized, EvaluateAccess(&expired, "user-c", now))
}

func TestAccessStrings(t *testing.T) {
	assert.Equal(t, "active", MatchActive.String())
	assert.Equal(t, "unauthorized", MatchUnauthorized.String())
	assert.Equal(t, "expired", MatchExpired.String())
	assert.Equal(t, "declined", MatchDeclined.String())
	assert.Equal(t, "not_found", MatchNotFound.String())
}
