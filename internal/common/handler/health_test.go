package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgdb "github.com/ahwlsqja/ts-pass-claims/pkg/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestReadyWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := pkgdb.New(context.Background(), pkgdb.Config{Driver: pkgdb.DriverSQLite})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := NewHealthHandler(db, nil)
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, ReadyResponse{Status: "ok", DB: "ok", Redis: "disabled"}, body)

	require.NoError(t, db.Close())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
