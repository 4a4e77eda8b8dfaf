package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scrapbook-space/core/internal/middleware"
	"github.com/scrapbook-space/core/internal/modules/auth"
	"github.com/scrapbook-space/core/internal/modules/catalog"
	"github.com/scrapbook-space/core/internal/modules/editmode"
	"github.com/scrapbook-space/core/internal/modules/gateway"
	"github.com/scrapbook-space/core/internal/modules/item"
	"github.com/scrapbook-space/core/internal/modules/system"
	"github.com/scrapbook-space/core/internal/modules/upload"
	"github.com/scrapbook-space/core/internal/pkg/blob"
	"github.com/scrapbook-space/core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(blobs *blob.Store) {
	authMW := middleware.Auth()
	rdb := a.rc.Raw()

	editModeSvc := editmode.NewService(editmode.NewMongoStore(a.db.EditMode()), a.hub, a.logger)
	itemSvc := item.NewService(item.NewMongoStore(a.db.Items()), editModeSvc, a.hub, a.logger)
	catalogSvc := catalog.NewService(catalog.NewMongoStore(a.db.Pages()), a.hub, a.logger)
	uploadSvc := upload.NewService(blobs, itemSvc, a.logger)
	authSvc := auth.NewService(a.cfg.AdminPassword, a.logger)

	api := a.router.Group(apiPrefix)
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.RateLimit(rdb))
	api.Use(middleware.Idempotence(rdb))
	api.Use(middleware.HTTPCache(rdb, middleware.HTTPCacheOptions{
		TTL: 15 * time.Second,
		SkipPaths: []string{
			apiPrefix + "/edit-mode",
			apiPrefix + "/health",
		},
	}))
	api.Use(a.purgeCacheAfterWrites(rdb))

	// socket.io lives at the root, outside the caching middleware
	gateway.RegisterRoutes(a.router.Group(""), a.hub)

	system.RegisterRoutes(api, a.db, a.rc)

	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)
	editmode.NewHandler(editModeSvc).RegisterRoutes(api, authMW)
	catalog.NewHandler(catalogSvc, itemSvc, editModeSvc, a.cfg.Layout.Breakpoint).RegisterRoutes(api, authMW)
	item.NewHandler(itemSvc).RegisterRoutes(api, authMW)
	upload.NewHandler(uploadSvc).RegisterRoutes(api, authMW)

	a.router.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	a.router.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})
}

// purgeCacheAfterWrites drops the cached viewer responses whenever a
// mutation succeeds, so edit-mode flips and new placements are visible
// without waiting out the cache TTL.
func (a *App) purgeCacheAfterWrites(rdb *goredis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if _, err := middleware.PurgeHTTPCache(c.Request.Context(), rdb); err != nil {
			a.logger.Warn("purging response cache", zap.Error(err))
		}
	}
}
