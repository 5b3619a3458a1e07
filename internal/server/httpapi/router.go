package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := router.Group("/api/v1/users")
	{
		users.POST("/register", s.handleRegister)
		users.POST("/login", s.handleLogin)
		users.POST("/refresh-token", s.handleRefreshToken)

		protected := users.Group("", s.authorize())
		{
			protected.POST("/logout", s.handleLogout)
			protected.POST("/change-password", s.handleChangePassword)
			protected.GET("/current-user", s.handleCurrentUser)
			protected.PATCH("/update-account-details", s.handleUpdateAccountDetails)
			protected.PATCH("/update-user-avatar", s.handleUpdateAvatar)
			protected.PATCH("/update-user-cover-image", s.handleUpdateCoverImage)
			protected.GET("/user-profile/:username", s.handleUserProfile)
			protected.GET("/watch-history", s.handleWatchHistory)
			protected.POST("/watch-history/:videoId", s.handleRecordWatch)
		}
	}

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
