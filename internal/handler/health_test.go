package handler_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wesglu/checkbox/internal/handler"
	"github.com/wesglu/checkbox/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// downDB stands in for a Postgres connection that cannot be reached.
type downDB struct{}

func (downDB) DB() (*sql.DB, error) { return nil, errors.New("connection refused") }

func TestHealthReportsQueueDepthWhenPostgresDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	require.NoError(t, rdb.LPush(ctx, worker.QueueReceipt, "a", "b").Err())
	worker.ParkDeadReceipt(ctx, rdb, json.RawMessage(`{"to_email":"customer@example.com"}`), errors.New("smtp down"))

	r := gin.New()
	r.GET("/health", handler.Health(downDB{}, rdb))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"status":"degraded"`)
	assert.Contains(t, body, `"postgres":"down"`)
	assert.Contains(t, body, `"redis":"up"`)
	assert.Contains(t, body, `"pending":2`)
	assert.Contains(t, body, `"parked":1`)
}
