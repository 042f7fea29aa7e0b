package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) Problem {
	t.Helper()
	var p Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		title  string
	}{
		{domain.NewInvalidArgument("bad"), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{domain.NewNotFound("gone"), http.StatusNotFound, "NOT_FOUND"},
		{domain.NewInvalidTransition("nope"), http.StatusConflict, "INVALID_STATE_TRANSITION"},
		{domain.NewConflict("retry"), http.StatusConflict, "CONFLICT"},
		{errors.New("pool exhausted"), http.StatusInternalServerError, "UNKNOWN"},
	}
	for _, tc := range tests {
		t.Run(tc.title, func(t *testing.T) {
			e := NewEngine(logger.NewNop(), Options{})
			e.GET("/x", func(c *gin.Context) { Error(c, tc.err) })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tc.status, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, tc.status, p.Status)
			assert.Equal(t, tc.title, p.Title)
			assert.NotEmpty(t, p.RequestID)
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "internal error", p.Detail)
			} else {
				assert.Equal(t, tc.err.Error(), p.Detail)
			}
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	e := NewEngine(logger.NewNop(), Options{})
	e.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, Logger(c).RequestID()) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestParamID(t *testing.T) {
	e := NewEngine(logger.NewNop(), Options{})
	e.GET("/orders/:order_id", func(c *gin.Context) {
		id, ok := ParamID(c, "order_id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for path, status := range map[string]int{
		"/orders/42":  http.StatusOK,
		"/orders/abc": http.StatusBadRequest,
		"/orders/0":   http.StatusBadRequest,
		"/orders/-3":  http.StatusBadRequest,
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, rec.Code, path)
	}
}

func TestUnknownRouteIsProblem(t *testing.T) {
	e := NewEngine(logger.NewNop(), Options{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeProblem(t, rec).Title)
}

func TestLimitRejectsOverflow(t *testing.T) {
	e := NewEngine(logger.NewNop(), Options{MaxConcurrent: 1})
	entered := make(chan struct{})
	release := make(chan struct{})
	e.GET("/slow", func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusNoContent)
	})

	var wg sync.WaitGroup
	first := httptest.NewRecorder()
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/slow", nil))
	}()
	<-entered

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusServiceUnavailable, second.Code)

	close(release)
	wg.Wait()
	assert.Equal(t, http.StatusNoContent, first.Code)
}

func TestCORSPreflight(t *testing.T) {
	e := NewEngine(logger.NewNop(), Options{CORSOrigins: []string{"http://pos.local"}})
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	e.GET("/x", ok)
	e.POST("/x", ok)
	e.PUT("/x", ok)
	e.PATCH("/x", ok)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/x", nil)
			req.Header.Set("Origin", "http://pos.local")
			req.Header.Set("Access-Control-Request-Method", method)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, "http://pos.local", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, strings.Split(rec.Header().Get("Access-Control-Allow-Methods"), ","), method)
		})
	}
}
