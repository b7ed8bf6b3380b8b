package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksync/backend/internal/domain/syncing"
	"github.com/stocksync/backend/internal/interfaces/http/dto"
)

type fakeScheduler struct {
	restarts   int
	restartErr error
}

func (s *fakeScheduler) Restart(_ context.Context) error {
	s.restarts++
	return s.restartErr
}

func newSettingRouter(f *fixture, scheduler SchedulerControl) *gin.Engine {
	router := gin.New()
	api := router.Group("/api/v1")
	NewSettingHandler(f.service, scheduler).RegisterRoutes(api)
	return router
}

func TestSettingHandler_GetSyncInterval(t *testing.T) {
	f := newFixture()
	router := newSettingRouter(f, &fakeScheduler{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings/sync-interval", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(syncing.DefaultSyncIntervalMinutes), data["minutes"])
}

func TestSettingHandler_PutSyncInterval(t *testing.T) {
	t.Run("stores the interval and restarts the scheduler", func(t *testing.T) {
		f := newFixture()
		scheduler := &fakeScheduler{}
		router := newSettingRouter(f, scheduler)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/sync-interval",
			strings.NewReader(`{"minutes": 45}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, scheduler.restarts)
		assert.Equal(t, 45, f.service.SyncIntervalMinutes(req.Context()))
	})

	t.Run("rejects a non-positive interval", func(t *testing.T) {
		f := newFixture()
		scheduler := &fakeScheduler{}
		router := newSettingRouter(f, scheduler)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/sync-interval",
			strings.NewReader(`{"minutes": 0}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, scheduler.restarts)
	})

	t.Run("reports a restart failure after storing", func(t *testing.T) {
		f := newFixture()
		scheduler := &fakeScheduler{restartErr: errors.New("ticker wedged")}
		router := newSettingRouter(f, scheduler)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/sync-interval",
			strings.NewReader(`{"minutes": 45}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		// The interval itself was stored before the restart attempt
		assert.Equal(t, 45, f.service.SyncIntervalMinutes(req.Context()))
	})
}
