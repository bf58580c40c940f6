package after_hours

import (
	"strings"
	"testing"
	"time"

	models "vlvt/models/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMessageText(t *testing.T) {
	t.Run("rejects empty and whitespace-only text", func(t *testing.T) {
		_, err := ValidateMessageText("")
		assert.ErrorIs(t, err, ErrEmptyMessage)

		_, err = ValidateMessageText("   \t\n  ")
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("rejects text over the cap", func(t *testing.T) {
		_, err := ValidateMessageText(strings.Repeat("a", 2001))
		assert.ErrorIs(t, err, ErrMessageTooLong)
	})

	t.Run("accepts text at exactly the cap", func(t *testing.T) {
		text := strings.Repeat("a", 2000)
		trimmed, err := ValidateMessageText(text)
		assert.NoError(t, err)
		assert.Equal(t, text, trimmed)
	})

	t.Run("trims before storing", func(t *testing.T) {
		trimmed, err := ValidateMessageText("  hi there  ")
		assert.NoError(t, err)
		assert.Equal(t, "hi there", trimmed)
	})

	t.Run("length cap applies after trimming", func(t *testing.T) {
		// 2000 payload chars plus surrounding whitespace still fits
		text := "  " + strings.Repeat("a", 2000) + "  "
		trimmed, err := ValidateMessageText(text)
		assert.NoError(t, err)
		assert.Len(t, trimmed, 2000)
	})
}

// Mirrors the send_message flow: well-formed text, guard verdict, then the
// insert. On an expired match the verdict must stop the flow before any row
// is written.
func TestExpiredMatchBlocksMessageInsert(t *testing.T) {
	db := saveTestDB(t)
	match := newTestMatch(t, db, -time.Minute)

	trimmed, err := ValidateMessageText("are you still there?")
	require.NoError(t, err)
	require.NotEmpty(t, trimmed)

	access, _, err := CheckMatchAccess(db, match.ID, match.UserID1)
	require.NoError(t, err)
	assert.Equal(t, MatchExpired, access)

	// The handler refuses on any non-Active verdict; nothing reaches
	// InsertMessage.
	var count int64
	db.Model(&models.EphemeralMessage{}).Where("match_id = ?", match.ID).Count(&count)
	assert.Equal(t, int64(0), count, "expired match must not accept messages")
}
