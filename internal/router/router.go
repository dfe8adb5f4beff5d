package router

import (
	"github.com/fooddash/fooddash-backend/config"
	"github.com/fooddash/fooddash-backend/internal/app/controller"
	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/metrics"
	"github.com/fooddash/fooddash-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController      *controller.AuthController
	menuController      *controller.MenuController
	cartController      *controller.CartController
	orderController     *controller.OrderController
	analyticsController *controller.AnalyticsController
	activityController  *controller.ActivityController
	adminController     *controller.AdminController
	wsController        *controller.WebSocketController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	menuController *controller.MenuController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	analyticsController *controller.AnalyticsController,
	activityController *controller.ActivityController,
	adminController *controller.AdminController,
	wsController *controller.WebSocketController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		menuController:      menuController,
		cartController:      cartController,
		orderController:     orderController,
		analyticsController: analyticsController,
		activityController:  activityController,
		adminController:     adminController,
		wsController:        wsController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Food Dash API is running",
		})
	})
	router.GET("/metrics", metrics.Handler())

	authenticate := r.authMiddleware.Authenticate()
	customerOnly := r.authMiddleware.RequireRole(model.RoleCustomer)
	backOffice := r.authMiddleware.RequireRole(model.RoleStaff, model.RoleAdmin)
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/staff/login", r.authController.StaffLogin)
			auth.POST("/admin/login", r.authController.AdminLogin)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", authenticate, r.authController.Logout)
		}

		me := v1.Group("/me")
		me.Use(authenticate, customerOnly)
		{
			me.GET("", r.authController.GetMe)
			me.PUT("", r.authController.UpdateMe)
		}

		menu := v1.Group("/menu")
		{
			menu.GET("", r.menuController.ListMenu)
			menu.GET("/:id", r.menuController.GetMenuItem)
			menu.POST("", authenticate, backOffice, r.menuController.CreateMenuItem)
			menu.PUT("/:id", authenticate, backOffice, r.menuController.UpdateMenuItem)
			menu.DELETE("/:id", authenticate, backOffice, r.menuController.DeleteMenuItem)
			menu.POST("/upload-url", authenticate, backOffice, r.menuController.CreateImageUploadURL)
		}

		cart := v1.Group("/cart")
		cart.Use(authenticate, customerOnly)
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddToCart)
			cart.PATCH("/items/:index", r.cartController.UpdateCartItem)
			cart.DELETE("/items/:index", r.cartController.RemoveCartItem)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders")
		orders.Use(authenticate)
		{
			orders.POST("", customerOnly, r.orderController.Checkout)
			orders.GET("/mine", customerOnly, r.orderController.GetMyOrders)
			orders.GET("/mine/:id", customerOnly, r.orderController.GetMyOrder)

			orders.GET("", backOffice, r.orderController.ListOrders)
			orders.GET("/:id", backOffice, r.orderController.GetOrder)
			orders.PATCH("/:id/status", backOffice, r.orderController.UpdateOrderStatus)
			orders.DELETE("/:id", adminOnly, r.orderController.DeleteOrder)
		}

		analytics := v1.Group("/analytics")
		analytics.Use(authenticate, backOffice)
		{
			analytics.GET("/dashboard", r.analyticsController.GetDashboard)
			analytics.GET("/monthly", r.analyticsController.GetMonthlyRevenue)
			analytics.GET("/popular", r.analyticsController.GetPopularItems)
		}

		activity := v1.Group("/activity")
		activity.Use(authenticate, backOffice)
		{
			activity.GET("", r.activityController.ListActivity)
			activity.GET("/count", r.activityController.CountActivity)
			activity.GET("/export", adminOnly, r.activityController.ExportActivity)
			activity.DELETE("", adminOnly, r.activityController.ClearActivity)
		}

		admin := v1.Group("/admin")
		admin.Use(authenticate, adminOnly)
		{
			admin.GET("/staff", r.adminController.ListStaff)
			admin.POST("/staff", r.adminController.CreateStaff)
			admin.PUT("/staff/:id", r.adminController.UpdateStaff)
			admin.DELETE("/staff/:id", r.adminController.DeleteStaff)
			admin.GET("/customers", r.adminController.ListCustomers)
			admin.POST("/customers", r.adminController.CreateCustomer)
			admin.PUT("/customers/:id", r.adminController.UpdateCustomer)
			admin.DELETE("/customers/:id", r.adminController.DeleteCustomer)
		}

		v1.GET("/ws/orders", authenticate, backOffice, r.wsController.OrderEvents)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, Accept, Origin, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
