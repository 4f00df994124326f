package app

import (
	"github.com/gin-gonic/gin"
	"github.com/driftv8/gate-core/internal/middleware"
	"github.com/driftv8/gate-core/internal/modules/accesscode"
	"github.com/driftv8/gate-core/internal/modules/auditlog"
	"github.com/driftv8/gate-core/internal/modules/auth"
	"github.com/driftv8/gate-core/internal/modules/catalog"
	"github.com/driftv8/gate-core/internal/modules/settings"
	"github.com/driftv8/gate-core/internal/modules/storage"
	pkgredis "github.com/driftv8/gate-core/internal/pkg/redis"
	"github.com/driftv8/gate-core/internal/pkg/response"
	"github.com/driftv8/gate-core/internal/pkg/whatsapp"
)

func (a *App) registerRoutes(rc *pkgredis.Client, store storage.ObjectStore, wa *whatsapp.Client) {
	r := a.router
	db := a.db
	logger := a.logger
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	settingsSvc := settings.NewService(db, wa)
	codeSvc := accesscode.NewService(db, settingsSvc, wa, logger)
	catalogSvc := catalog.NewService(db, store, codeSvc, logger)
	authSvc := auth.NewService(db)
	auditSvc := auditlog.NewService(db)

	// Redemption alerts and rate-limit alerts share the same WhatsApp channel
	// and the same admin-controlled settings.
	alert := func(ip, path string) {
		enabled, phone, apiKey := settingsSvc.NotificationConfig()
		if !enabled {
			return
		}
		wa.ThrottleAlert(phone, apiKey, ip, path)
	}

	api := r.Group("/api",
		middleware.OptionalAuth(db),
		middleware.RateLimit(rc.Raw(), alert))

	codeHandler := accesscode.NewHandler(codeSvc, logger)
	catalogHandler := catalog.NewHandler(catalogSvc, logger)
	authHandler := auth.NewHandler(authSvc, logger)
	settingsHandler := settings.NewHandler(settingsSvc, logger)
	auditHandler := auditlog.NewHandler(auditSvc, logger)

	codeHandler.RegisterPublicRoutes(api)
	catalogHandler.RegisterPublicRoutes(api)
	authHandler.RegisterPublicRoutes(api)

	admin := api.Group("/admin", authMW)
	codeHandler.RegisterAdminRoutes(admin)
	catalogHandler.RegisterAdminRoutes(admin)
	authHandler.RegisterAdminRoutes(admin)
	settingsHandler.RegisterRoutes(admin)
	auditHandler.RegisterRoutes(admin)
}
