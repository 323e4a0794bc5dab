package router

import (
	"net/http"
	"time"

	"socialhub/internal/chat"
	"socialhub/internal/config"
	"socialhub/internal/constants"
	"socialhub/internal/friend"
	"socialhub/internal/logger"
	"socialhub/internal/middleware"
	"socialhub/internal/monitoring"
	"socialhub/internal/service"
	"socialhub/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SetupRouter 配置所有路由
func SetupRouter(cfg *config.Config, mgr *service.Manager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS 配置，未配置来源时允许任意来源但不携带凭证
	corsCfg := cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))

	r.Use(requestLogger())
	r.Use(monitoring.Middleware())

	r.Static(constants.UploadURLPrefix, mgr.UploadDir())
	r.GET("/metrics", monitoring.Handler())

	users := user.NewHandler(mgr.GetAccountService(), mgr.GetRequestService(), mgr.UploadDir())
	friends := friend.NewHandler(mgr.GetRequestService(), mgr.GetFriendGraph())
	messages := chat.NewHandler(mgr.GetMessageService())

	api := r.Group("/api")
	{
		// ----- 无需认证的路由 -----
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.POST("/register", users.Register)
		api.POST("/login", users.Login)

		// ----- 需要认证的路由 -----
		auth := api.Group("")
		auth.Use(middleware.JWT(mgr.Tokens()))
		{
			// ----- 用户相关 -----
			auth.GET("/users", users.ListUsers)
			auth.PUT("/users/me", users.UpdateMyProfile)
			auth.POST("/users/upload-profile", users.UploadProfilePicture)

			// ----- 好友相关 -----
			auth.POST("/friends/request", friends.SendRequest)
			auth.GET("/friends/requests", friends.ListIncoming)
			auth.GET("/friends/requests/sent", friends.ListOutgoing)
			auth.POST("/friends/respond", friends.Respond)
			auth.GET("/friends", friends.ListFriends)
			auth.GET("/friends/status/:friend_id", friends.Status)
			auth.DELETE("/friends/:friend_id", friends.Unfriend)

			// ----- 消息相关 -----
			auth.POST("/messages/send", messages.SendMessage)
			auth.GET("/messages/chat", messages.GetChat)
		}
	}

	return r
}

// requestLogger 为每个请求分配ID并记录方法、路径、状态和耗时
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(constants.ContextRequestID, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if userID, ok := middleware.CurrentUserID(c); ok {
			fields = append(fields, "user_id", userID)
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("请求完成", fields...)
			return
		}
		logger.Info("请求完成", fields...)
	}
}
