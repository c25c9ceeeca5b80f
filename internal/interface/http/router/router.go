package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/easyshop/internal/domain/user"
	"github.com/xiebiao/easyshop/internal/infrastructure/config"
	"github.com/xiebiao/easyshop/internal/interface/http/handler"
	"github.com/xiebiao/easyshop/internal/interface/http/middleware"
	"github.com/xiebiao/easyshop/pkg/metrics"
	"github.com/xiebiao/easyshop/pkg/response"
)

// Handlers 所有HTTP处理器（由wire.Struct注入）
type Handlers struct {
	User    *handler.UserHandler
	Profile *handler.ProfileHandler
	Catalog *handler.CatalogHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
}

// New 创建Gin引擎并注册全部路由
func New(cfg *config.Config, log *zap.Logger, h *Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}
	metrics.InitMetrics()

	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 生产环境不暴露Swagger
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := auth.RequireAuth()
	requireAdmin := middleware.RequireRole(user.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", auth.OptionalAuth(), h.User.Register)
			users.POST("/login", h.User.Login)
			users.POST("/refresh", h.User.Refresh)
			users.POST("/logout", requireAuth, h.User.Logout)
		}

		profile := v1.Group("/profile", requireAuth)
		{
			profile.GET("", h.Profile.Get)
			profile.PUT("", h.Profile.Update)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", h.Catalog.ListCategories)
			categories.GET("/:id", h.Catalog.GetCategory)
			categories.GET("/:id/products", h.Catalog.CategoryProducts)
			categories.POST("", requireAuth, requireAdmin, h.Catalog.CreateCategory)
			categories.PUT("/:id", requireAuth, requireAdmin, h.Catalog.UpdateCategory)
			categories.DELETE("/:id", requireAuth, requireAdmin, h.Catalog.DeleteCategory)
		}

		products := v1.Group("/products")
		{
			products.GET("", h.Catalog.SearchProducts)
			products.GET("/:id", h.Catalog.GetProduct)
			products.POST("", requireAuth, requireAdmin, h.Catalog.CreateProduct)
			products.PUT("/:id", requireAuth, requireAdmin, h.Catalog.UpdateProduct)
			products.DELETE("/:id", requireAuth, requireAdmin, h.Catalog.DeleteProduct)
		}

		cart := v1.Group("/cart", requireAuth)
		{
			cart.GET("", h.Cart.Get)
			cart.DELETE("", h.Cart.Clear)
			cart.POST("/products/:id", h.Cart.AddProduct)
			cart.PUT("/products/:id", h.Cart.UpdateQuantity)
		}

		orders := v1.Group("/orders", requireAuth)
		{
			orders.POST("", h.Order.Checkout)
			orders.GET("", h.Order.List)
			orders.GET("/:id", h.Order.Get)
		}
	}

	return r
}
