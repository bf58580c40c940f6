package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vlvt/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// afterHoursTestRouter wires the after-hours endpoints with no database; the
// requests under test must be rejected before any query runs.
func afterHoursTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := middleware.GenerateToken("user-1", "user-1@example.com")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/after-hours/messages/:matchId", GetAfterHoursMessages(nil))
	r.POST("/after-hours/matches/:matchId/save", SaveAfterHoursMatch(nil, nil))
	r.POST("/after-hours/matches/:matchId/block", BlockAfterHoursMatch(nil))
	r.POST("/after-hours/matches/:matchId/report", ReportAfterHoursMatch(nil))
	return r, token
}

func TestMalformedMatchIDIsBadRequest(t *testing.T) {
	router, token := afterHoursTestRouter(t)

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/after-hours/messages/not-a-uuid"},
		{http.MethodPost, "/after-hours/matches/not-a-uuid/save"},
		{http.MethodPost, "/after-hours/matches/not-a-uuid/block"},
		{http.MethodPost, "/after-hours/matches/not-a-uuid/report"},
	}

	for _, e := range endpoints {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(e.method, e.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		// A format error is a validation error with a specific message,
		// not a generic authorization failure.
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", e.method, e.path)
		assert.Contains(t, w.Body.String(), "Invalid match id", "%s %s", e.method, e.path)
	}
}

func TestAfterHoursEndpointsRequireToken(t *testing.T) {
	router, _ := afterHoursTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/after-hours/messages/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
