package after_hours

import (
	"fmt"
	"log"

	models "vlvt/models/postgres"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveOutcome is the result of one RecordSaveVote call.
type SaveOutcome struct {
	// MutualSave is true once both participants have voted, no matter which
	// call observes it.
	MutualSave bool
	// WaitingForPartner is true while only the caller has voted.
	WaitingForPartner bool
	// AlreadySaved marks a repeated vote from the same user. Repeats return
	// the prior outcome and must not re-trigger notifications.
	AlreadySaved bool
	// Converted is true only for the single call that actually created the
	// permanent match. It is the notification trigger for the mutual-save
	// fan-out.
	Converted bool
	// PermanentMatchID is set whenever MutualSave is true.
	PermanentMatchID string
	// Match is the loaded ephemeral match, for callers that need the
	// participants (notification targeting).
	Match *models.EphemeralMatch
}

// RecordSaveVote registers userID's intent to keep the match and converts it
// to a permanent match when both sides have voted.
//
// Votes from the two participants can arrive concurrently on different
// service instances, so all atomicity lives in Postgres: the vote insert
// conflicts on the (match_id, user_id) primary key and the conversion insert
// conflicts on the unique ephemeral_match_id. Exactly one caller observes
// Converted=true; both observe the same PermanentMatchID.
//
// A non-Active verdict other than MatchExpired denies the vote. Voting on an
// already expired match is still rejected here (unlike send_message there is
// no value in accepting it), but a declined match and an expired one both
// come back as their own verdict so the REST layer can pick the right error.
func RecordSaveVote(db *gorm.DB, matchID, userID string) (*SaveOutcome, MatchAccess, error) {
	access, match, err := CheckMatchAccess(db, matchID, userID)
	if err != nil {
		return nil, access, err
	}
	if access == MatchExpired {
		// Conversion may have completed before the window closed; a client
		// retry after expiry must still see that prior outcome.
		var permanent models.PermanentMatch
		if err := db.Where("ephemeral_match_id = ?", matchID).
			First(&permanent).Error; err == nil {
			return &SaveOutcome{
				MutualSave:       true,
				AlreadySaved:     true,
				PermanentMatchID: permanent.ID,
				Match:            match,
			}, access, nil
		}
		return nil, access, nil
	}
	if access != MatchActive {
		return nil, access, nil
	}

	outcome := &SaveOutcome{Match: match}
	err = db.Transaction(func(tx *gorm.DB) error {
		vote := models.SaveVote{MatchID: match.ID, UserID: userID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
		if res.Error != nil {
			return fmt.Errorf("error recording save vote: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			// Repeat vote: report whatever already happened, change nothing.
			outcome.AlreadySaved = true
			return loadPriorOutcome(tx, match.ID, outcome)
		}

		var votes int64
		if err := tx.Model(&models.SaveVote{}).
			Where("match_id = ?", match.ID).
			Count(&votes).Error; err != nil {
			return fmt.Errorf("error counting save votes: %w", err)
		}

		if votes < 2 {
			outcome.WaitingForPartner = true
			return nil
		}

		return convert(tx, match, outcome)
	})
	if err != nil {
		return nil, access, err
	}

	// Two first votes committing concurrently can each see only their own
	// vote inside the transaction (read committed) and both report waiting,
	// so a fresh waiting vote re-checks after commit. The unique constraint
	// still guarantees at most one conversion no matter how many callers
	// reach this point.
	if outcome.WaitingForPartner && !outcome.AlreadySaved {
		var votes int64
		if err := db.Model(&models.SaveVote{}).
			Where("match_id = ?", match.ID).
			Count(&votes).Error; err != nil {
			return nil, access, fmt.Errorf("error re-checking save votes: %w", err)
		}
		if votes >= 2 {
			outcome.WaitingForPartner = false
			err = db.Transaction(func(tx *gorm.DB) error {
				return convert(tx, match, outcome)
			})
			if err != nil {
				return nil, access, err
			}
		}
	}

	return outcome, MatchActive, nil
}

// loadPriorOutcome fills the outcome for a duplicate vote from the current
// database state: mutual if the conversion already happened, waiting if not.
func loadPriorOutcome(tx *gorm.DB, matchID string, outcome *SaveOutcome) error {
	var permanent models.PermanentMatch
	err := tx.Where("ephemeral_match_id = ?", matchID).First(&permanent).Error
	if err == nil {
		outcome.MutualSave = true
		outcome.PermanentMatchID = permanent.ID
		return nil
	}
	if err == gorm.ErrRecordNotFound {
		outcome.WaitingForPartner = true
		return nil
	}
	return fmt.Errorf("error loading prior save outcome: %w", err)
}

// convert creates the permanent match and copies the conversation into the
// permanent store. Runs inside a transaction; if a concurrent vote already
// converted, the insert is a no-op and we adopt its row.
func convert(tx *gorm.DB, match *models.EphemeralMatch, outcome *SaveOutcome) error {
	permanent := models.PermanentMatch{
		EphemeralMatchID: match.ID,
		UserID1:          match.UserID1,
		UserID2:          match.UserID2,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&permanent)
	if res.Error != nil {
		return fmt.Errorf("error creating permanent match: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// Lost the race, the other vote's transaction converted first.
		var existing models.PermanentMatch
		if err := tx.Where("ephemeral_match_id = ?", match.ID).
			First(&existing).Error; err != nil {
			return fmt.Errorf("error loading converted match: %w", err)
		}
		outcome.MutualSave = true
		outcome.PermanentMatchID = existing.ID
		return nil
	}

	var messages []models.EphemeralMessage
	if err := tx.Where("match_id = ?", match.ID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return fmt.Errorf("error loading messages for conversion: %w", err)
	}

	for _, msg := range messages {
		copied := models.PermanentMessage{
			PermanentMatchID: permanent.ID,
			SenderID:         msg.SenderID,
			Text:             msg.Text,
			SentAt:           msg.CreatedAt,
		}
		if err := tx.Create(&copied).Error; err != nil {
			return fmt.Errorf("error copying message %s: %w", msg.ID, err)
		}
	}

	log.Printf("[SAVE-CONVERT] Match %s converted to permanent match %s (%d messages copied)",
		match.ID, permanent.ID, len(messages))

	outcome.MutualSave = true
	outcome.Converted = true
	outcome.PermanentMatchID = permanent.ID
	return nil
}
