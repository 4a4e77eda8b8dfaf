// Package system exposes liveness and deployment metadata endpoints.
package system

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scrapbook-space/core/internal/database"
	"github.com/scrapbook-space/core/internal/pkg/redis"
	"github.com/scrapbook-space/core/internal/pkg/response"
)

const Name = "scrapbook-core"

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

var startedAt = time.Now()

// RegisterRoutes mounts the system endpoints at the API root.
func RegisterRoutes(rg *gin.RouterGroup, db *database.DB, rc *redis.Client) {
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	rg.GET("/info", func(c *gin.Context) {
		response.OK(c, gin.H{
			"name":    Name,
			"version": Version,
			"go":      runtime.Version(),
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
		})
	})

	rg.GET("/server-time", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"now": time.Now().UnixMilli()})
	})

	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		mongoOK := db != nil && db.Ping(ctx) == nil
		redisOK := rc != nil && rc.Raw() != nil && rc.Raw().Ping(ctx).Err() == nil

		status := "ok"
		code := http.StatusOK
		if !mongoOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":   status,
			"database": mongoOK,
			"redis":    redisOK,
		})
	})
}
