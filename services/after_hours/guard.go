package after_hours

import (
	"errors"
	"log"
	"time"

	models "vlvt/models/postgres"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchAccess is the guard's verdict for one (user, match) pair.
type MatchAccess int

const (
	MatchNotFound MatchAccess = iota
	MatchUnauthorized
	MatchExpired
	MatchDeclined
	MatchActive
)

func (a MatchAccess) String() string {
	switch a {
	case MatchNotFound:
		return "not_found"
	case MatchUnauthorized:
		return "unauthorized"
	case MatchExpired:
		return "expired"
	case MatchDeclined:
		return "declined"
	case MatchActive:
		return "active"
	}
	return "unknown"
}

// ErrInvalidMatchID is returned before any database query when the match id
// fails the format check.
var ErrInvalidMatchID = errors.New("invalid match id format")

// ValidMatchID rejects anything that is not a UUID. Checked first on every
// handler so malformed ids never reach the database.
func ValidMatchID(matchID string) bool {
	if matchID == "" {
		return false
	}
	_, err := uuid.Parse(matchID)
	return err == nil
}

// EvaluateAccess applies the access rules to a loaded match. Split from the
// query so the rules are testable without a database.
func EvaluateAccess(match *models.EphemeralMatch, userID string, now time.Time) MatchAccess {
	if match == nil {
		return MatchNotFound
	}
	if !match.IsParticipant(userID) {
		return MatchUnauthorized
	}
	if match.DeclinedBy != nil {
		return MatchDeclined
	}
	if !match.ExpiresAt.After(now) {
		return MatchExpired
	}
	return MatchActive
}

// CheckMatchAccess loads a match and decides whether userID may act on it.
// Read-only; every socket handler and REST endpoint that touches a match goes
// through here (or re-applies EvaluateAccess on an already loaded row). Any
// error resolves to a denying verdict, never to access.
func CheckMatchAccess(db *gorm.DB, matchID string, userID string) (MatchAccess, *models.EphemeralMatch, error) {
	if !ValidMatchID(matchID) {
		return MatchNotFound, nil, ErrInvalidMatchID
	}

	var match models.EphemeralMatch
	if err := db.Where("id = ?", matchID).First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MatchNotFound, nil, nil
		}
		log.Printf("[GUARD-ERROR] Error loading match %s: %v", matchID, err)
		return MatchNotFound, nil, err
	}

	return EvaluateAccess(&match, userID, time.Now()), &match, nil
}

// LogDenied records a denied attempt with enough context for abuse
// investigation. The client only ever sees a generic "Unauthorized", the
// specific reason stays server-side so match ids can't be probed.
func LogDenied(event, userID, matchID, remoteAddr string, access MatchAccess) {
	log.Printf("[AUTH-DENIED] event=%s user=%s match=%s addr=%s reason=%s",
		event, userID, matchID, remoteAddr, access)
}
