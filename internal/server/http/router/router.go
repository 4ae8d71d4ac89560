package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/membership/internal/config"
	"github.com/polkiloo/membership/internal/server/http/handlers"
	"github.com/polkiloo/membership/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MembershipFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS(cfg.CORSOrigins))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	userHandler := handlers.NewUserHandler(facade)
	customerHandler := handlers.NewCustomerHandler(facade)
	reportHandler := handlers.NewReportHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)

	api := engine.Group("/api")
	api.GET("/verify", customerHandler.Verify)

	auth := api.Group("/auth")
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signup", authHandler.SignUp)

	session := api.Group("")
	session.Use(middleware.AuthRequired(facade))
	session.POST("/auth/signout", authHandler.SignOut)
	session.GET("/auth/user", authHandler.CurrentUser)

	customers := session.Group("/customers")
	customers.GET("", customerHandler.List)
	customers.GET("/paginated", customerHandler.Paginate)
	customers.GET("/stats", customerHandler.Stats)
	customers.GET("/membership/:number", customerHandler.GetByMembershipNumber)
	customers.GET("/:id", customerHandler.Get)
	customers.GET("/:id/qr", customerHandler.QR)
	customers.POST("", customerHandler.Create)
	customers.PUT("/:id", customerHandler.Update)
	customers.DELETE("/:id", customerHandler.Delete)
	customers.PATCH("/:id/decrement-visits", customerHandler.DecrementVisits)

	session.GET("/reports/customers", reportHandler.Download)

	admin := session.Group("")
	admin.Use(middleware.AdminRequired())
	admin.GET("/auth/users", userHandler.List)
	admin.POST("/auth/users", userHandler.Create)
	admin.PUT("/auth/users/:id", userHandler.Update)
	admin.DELETE("/auth/users/:id", userHandler.Delete)
	admin.POST("/admin/migrate-local", adminHandler.MigrateLocal)

	return engine
}
