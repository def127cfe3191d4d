package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/noticeboard/internal/handlers"
	"github.com/thereayou/noticeboard/internal/handlers/dto"
	"github.com/thereayou/noticeboard/internal/metrics"
	"github.com/thereayou/noticeboard/internal/middleware"
	"github.com/thereayou/noticeboard/internal/oauth"
)

// Handlers: всё, что нужно для сборки маршрутов
type Handlers struct {
	Auth       *handlers.AuthHandler
	OAuth      *handlers.OAuthHandler
	Providers  *oauth.Registry
	Posts      *handlers.PostHandler
	Users      *handlers.UserHandler
	Categories *handlers.CategoryHandler
	Uploads    *handlers.UploadHandler // nil, если S3 не настроен
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler

	Authenticator *middleware.Authenticator
	AuthLimiter   *middleware.RateLimiter
	CORSOrigins   []string
	Log           logrus.FieldLogger
}

func NewRouter(h Handlers) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(h.Log),
		metrics.Middleware(),
		middleware.SecureHeaders(),
		middleware.CORS(h.CORSOrigins),
		middleware.ErrorHandler(h.Log),
	)
	r.NoRoute(middleware.NotFound())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	APIEndpoints(r.Group("/api"), h)
	return r, nil
}

func APIEndpoints(api *gin.RouterGroup, h Handlers) {
	authRequired := h.Authenticator.Auth()
	optionalAuth := h.Authenticator.OptionalAuth()

	api.GET("/health", h.Health.Health)

	// Auth endpoints
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.AuthLimiter.Handler(), h.Auth.Register)
		auth.POST("/login", h.AuthLimiter.Handler(), h.Auth.Login)
		auth.GET("/me", authRequired, h.Auth.Me)
		auth.POST("/change-password", authRequired, h.Auth.ChangePassword)
		auth.POST("/logout", authRequired, h.Auth.Logout)

		for _, name := range h.Providers.Names() {
			auth.GET("/"+name, h.OAuth.Redirect(name))
			auth.GET("/"+name+"/callback", h.OAuth.Callback(name))
			auth.POST("/"+name+"/callback", h.OAuth.Callback(name))
		}
	}

	posts := api.Group("/posts")
	{
		posts.GET("", optionalAuth, h.Posts.GetPosts)
		posts.POST("", authRequired, h.Posts.CreatePost)

		posts.GET("/user", authRequired, h.Posts.GetUserPosts)
		posts.GET("/saved", authRequired, h.Posts.GetSavedPosts)
		posts.GET("/followed", authRequired, h.Posts.GetFollowedPosts)

		posts.GET("/:id", optionalAuth, h.Posts.GetPost)
		posts.PUT("/:id", authRequired, h.Posts.UpdatePost)
		posts.DELETE("/:id", authRequired, h.Posts.DeletePost)

		posts.POST("/:id/like", authRequired, h.Posts.LikePost())
		posts.DELETE("/:id/like", authRequired, h.Posts.UnlikePost())
		posts.POST("/:id/save", authRequired, h.Posts.SavePost())
		posts.DELETE("/:id/save", authRequired, h.Posts.UnsavePost())
		posts.POST("/:id/follow", authRequired, h.Posts.FollowPost())
		posts.DELETE("/:id/follow", authRequired, h.Posts.UnfollowPost())

		posts.GET("/:id/comments", h.Posts.GetComments)
		posts.POST("/:id/comments", authRequired, h.Posts.AddComment)
		posts.DELETE("/:id/comments/:commentId", authRequired, h.Posts.DeleteComment)
	}

	users := api.Group("/users")
	{
		users.PATCH("/profile", authRequired, h.Users.UpdateProfile)
		users.GET("/preferences", authRequired, h.Users.GetPreferences)
		users.POST("/preferences/categories", authRequired, h.Users.UpdateSelectedCategories)
		users.POST("/preferences/notifications", authRequired, h.Users.UpdateNotificationPreferences)
		users.GET("/:id", optionalAuth, h.Users.GetUser)
	}

	api.GET("/categories", h.Categories.GetCategories)
	api.GET("/categories/:id", h.Categories.GetCategory)
	api.GET("/subcategories", h.Categories.GetSubcategories)
	api.GET("/subcategories/:id", h.Categories.GetSubcategory)

	if h.Uploads != nil {
		api.POST("/uploads/image", authRequired, h.Uploads.UploadImage)
	}

	api.GET("/notifications/ws", h.Authenticator.WSAuth(), h.WebSocket.HandleWebSocket)

	admin := api.Group("/admin", authRequired, middleware.AdminOnly())
	{
		admin.DELETE("/posts/:id", h.Posts.AdminDeletePost)
	}
}
