package main

import (
	"github.com/gin-gonic/gin"
)

func newRouter(s *server) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.CustomRecovery(recoveryHandler(s.log, s.metrics)))
	setupRoutes(r, s)
	return r
}

func setupRoutes(r *gin.Engine, s *server) {
	r.Use(corsMiddleware(s.cfg.CORSOrigins), requestLogger(s.log), requestMetrics(s.metrics))

	r.Static("/uploads", s.cfg.UploadBase)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	api.GET("/health", s.healthHandler)

	admin := api.Group("/admin")
	admin.POST("/login", s.loginHandler)
	authGroup := admin.Group("")
	authGroup.Use(jwtAuthMiddleware(s.tokens, s.admins, s.log))
	authGroup.GET("/profile", s.profileHandler)
	authGroup.POST("/logout", s.logoutHandler)

	// Product mutations are public, matching the deployed storefront client.
	// Add jwtAuthMiddleware to this group once the client sends the token.
	ikan := api.Group("/ikan")
	ikan.GET("", s.listIkanHandler)
	ikan.GET("/search", s.searchIkanHandler)
	ikan.GET("/status/:status", s.ikanByStatusHandler)
	ikan.GET("/:id", s.getIkanHandler)
	ikan.POST("", s.createIkanHandler)
	ikan.PUT("/:id", s.updateIkanHandler)
	ikan.DELETE("/:id", s.deleteIkanHandler)

	settings := api.Group("/settings")
	settings.GET("", s.listSettingsHandler)
	settings.GET("/website", s.websiteSettingsHandler)
	settings.PUT("/website", s.updateWebsiteSettingsHandler)
	settings.POST("/reset", s.resetSettingsHandler)
	settings.GET("/:key", s.getSettingHandler)
	settings.PUT("/:key", s.putSettingHandler)
	settings.DELETE("/:key", s.deleteSettingHandler)

	r.NoRoute(s.notFoundHandler)
}
