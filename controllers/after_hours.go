package controllers

import (
	"log"
	"net/http"
	"time"

	"vlvt/middleware"
	"vlvt/services/after_hours"
	"vlvt/services/notifications"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Get After Hours message history
// @Description Returns up to 50 messages for a match, newest first. Pass `before` (RFC3339 timestamp) to page further back.
// @Tags after-hours
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param matchId path string true "Match id"
// @Param before query string false "RFC3339 cursor, only messages strictly older are returned"
// @Success 200 {object} object{messages=[]object,hasMore=boolean}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /after-hours/messages/{matchId} [get]
// @Security ApiKeyAuth
func GetAfterHoursMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		matchID := c.Param("matchId")
		if !after_hours.ValidMatchID(matchID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
			return
		}

		var before *time.Time
		if raw := c.Query("before"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'before' cursor, must be RFC3339"})
				return
			}
			before = &parsed
		}

		access, _, err := after_hours.CheckMatchAccess(db, matchID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// History stays readable on an expired match until the client drops
		// it; declined or foreign matches are a generic 401.
		if access != after_hours.MatchActive && access != after_hours.MatchExpired {
			after_hours.LogDenied("rest:get_messages", userID, matchID, c.ClientIP(), access)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		messages, err := after_hours.FetchMessages(db, matchID, before, after_hours.MessagePageSize)
		if err != nil {
			log.Printf("[HISTORY-ERROR] User %s, match %s: %v", userID, matchID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching messages"})
			return
		}

		out := make([]gin.H, len(messages))
		for i, msg := range messages {
			out[i] = gin.H{
				"id":        msg.ID,
				"matchId":   msg.MatchID,
				"senderId":  msg.SenderID,
				"text":      msg.Text,
				"timestamp": msg.CreatedAt,
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"hasMore":  len(messages) == after_hours.MessagePageSize,
		})
	}
}

// @Summary Vote to save an After Hours match
// @Description Records the caller's save vote. When both participants have voted the match converts to a permanent match and its messages are copied over.
// @Tags after-hours
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param matchId path string true "Match id"
// @Success 200 {object} object{success=boolean,mutualSave=boolean,permanentMatchId=string}
// @Failure 400 {object} object{code=string,error=string}
// @Failure 401 {object} object{error=string}
// @Router /after-hours/matches/{matchId}/save [post]
// @Security ApiKeyAuth
func SaveAfterHoursMatch(db *gorm.DB, notifier *notifications.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		matchID := c.Param("matchId")
		if !after_hours.ValidMatchID(matchID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
			return
		}

		outcome, access, err := after_hours.RecordSaveVote(db, matchID, userID)
		if err != nil {
			log.Printf("[SAVE-ERROR] User %s, match %s: %v", userID, matchID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if outcome == nil {
			if access == after_hours.MatchExpired {
				c.JSON(http.StatusBadRequest, gin.H{"code": "MATCH_EXPIRED", "error": "Match has expired"})
				return
			}
			after_hours.LogDenied("rest:save_match", userID, matchID, c.ClientIP(), access)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		// Notifications fire only on the call that caused the transition;
		// repeats return the prior outcome silently.
		if outcome.Converted {
			payload := gin.H{"matchId": matchID, "permanentMatchId": outcome.PermanentMatchID}
			notifier.Notify("after_hours:match_saved", outcome.Match.UserID1, payload, notifications.PushAlways)
			notifier.Notify("after_hours:match_saved", outcome.Match.UserID2, payload, notifications.PushAlways)
		} else if outcome.WaitingForPartner && !outcome.AlreadySaved {
			notifier.Notify("after_hours:partner_saved", outcome.Match.OtherParticipant(userID),
				gin.H{"matchId": matchID, "savedBy": userID}, notifications.PushAlways)
		}

		resp := gin.H{
			"success":    true,
			"mutualSave": outcome.MutualSave,
			"waiting":    outcome.WaitingForPartner,
		}
		if outcome.MutualSave {
			resp["permanentMatchId"] = outcome.PermanentMatchID
		}
		c.JSON(http.StatusOK, resp)
	}
}

// declineAfterHoursMatch backs both /block and /report: either one sets
// declined_by and kills the match for messaging. The safety subsystem that
// processes reports is external; reason is just logged here.
func declineAfterHoursMatch(db *gorm.DB, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		matchID := c.Param("matchId")
		if !after_hours.ValidMatchID(matchID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
			return
		}

		access, _, err := after_hours.CheckMatchAccess(db, matchID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if access != after_hours.MatchActive && access != after_hours.MatchExpired {
			after_hours.LogDenied("rest:"+action, userID, matchID, c.ClientIP(), access)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := after_hours.DeclineMatch(db, matchID, userID); err != nil {
			log.Printf("[%s-ERROR] User %s, match %s: %v", action, userID, matchID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		log.Printf("[SAFETY] User %s %sed match %s", userID, action, matchID)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// @Summary Block an After Hours match
// @Tags after-hours
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param matchId path string true "Match id"
// @Success 200 {object} object{success=boolean}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /after-hours/matches/{matchId}/block [post]
// @Security ApiKeyAuth
func BlockAfterHoursMatch(db *gorm.DB) gin.HandlerFunc {
	return declineAfterHoursMatch(db, "block")
}

// @Summary Report an After Hours match
// @Tags after-hours
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param matchId path string true "Match id"
// @Success 200 {object} object{success=boolean}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /after-hours/matches/{matchId}/report [post]
// @Security ApiKeyAuth
func ReportAfterHoursMatch(db *gorm.DB) gin.HandlerFunc {
	return declineAfterHoursMatch(db, "report")
}
