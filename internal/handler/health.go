package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/infra"
)

// Health reports local-store health plus the breaker state toward the
// remote. The terminal is healthy even while offline — "remote" is
// informational, not part of the verdict.
func Health(db *gorm.DB, breaker *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "ok"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":     status == http.StatusOK,
			"db":     dbStatus,
			"remote": breaker.State().String(),
		})
	}
}
