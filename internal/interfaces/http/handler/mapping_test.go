package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksync/backend/internal/interfaces/http/dto"
)

func newMappingRouter(f *fixture) *gin.Engine {
	router := gin.New()
	api := router.Group("/api/v1")
	NewMappingHandler(f.service).RegisterRoutes(api)
	return router
}

func TestMappingHandler_Upsert(t *testing.T) {
	t.Run("creates a mapping", func(t *testing.T) {
		f := newFixture()
		router := newMappingRouter(f)

		body := `{"warehouse_id": "dep-1", "warehouse_name": "Main", "location_id": "loc-1", "location_name": "Downtown"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/mappings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		stored, err := f.mappings.GetByWarehouse(req.Context(), "dep-1")
		require.NoError(t, err)
		assert.Equal(t, "loc-1", stored.LocationID)
		assert.True(t, stored.Active, "active should default to true")
	})

	t.Run("honors an explicit active false", func(t *testing.T) {
		f := newFixture()
		router := newMappingRouter(f)

		body := `{"warehouse_id": "dep-1", "location_id": "loc-1", "active": false}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/mappings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		stored, err := f.mappings.GetByWarehouse(req.Context(), "dep-1")
		require.NoError(t, err)
		assert.False(t, stored.Active)
	})

	t.Run("rejects a body without location_id", func(t *testing.T) {
		f := newFixture()
		router := newMappingRouter(f)

		body := `{"warehouse_id": "dep-1"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/mappings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})

	t.Run("rejects a non-JSON body", func(t *testing.T) {
		f := newFixture()
		router := newMappingRouter(f)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/mappings", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMappingHandler_List(t *testing.T) {
	f := newFixture(
		activeTestMapping("dep-1", "loc-1"),
		activeTestMapping("dep-2", "loc-2"),
	)
	router := newMappingRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/mappings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestMappingHandler_Remove(t *testing.T) {
	f := newFixture(activeTestMapping("dep-1", "loc-1"))
	router := newMappingRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/mappings/dep-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err := f.mappings.GetByWarehouse(req.Context(), "dep-1")
	assert.Error(t, err)

	// Removing the same mapping again is idempotent
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/mappings/dep-1", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
