package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/wesglu/checkbox/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// dbPinger is the slice of *gorm.DB the health check needs.
type dbPinger interface {
	DB() (*sql.DB, error)
}

// Health reports liveness of both stores and of the receipt delivery
// pipeline: jobs still waiting in the queue and deliveries parked in the
// dead letter list. Returns 503 when either store is unreachable so a load
// balancer can pull the instance.
func Health(db dbPinger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		healthy := true

		pgState := "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			pgState = "down"
			healthy = false
		}

		redisState := "up"
		var pending, parked int64 = -1, -1
		if err := rdb.Ping(ctx).Err(); err != nil {
			redisState = "down"
			healthy = false
		} else {
			pending, _ = rdb.LLen(ctx, worker.QueueReceipt).Result()
			parked, _ = worker.DLQLength(ctx, rdb)
		}

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":   status,
			"postgres": pgState,
			"redis":    redisState,
			"receipt_queue": gin.H{
				"pending": pending,
				"parked":  parked,
			},
		})
	}
}
