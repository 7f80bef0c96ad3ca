package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cafepos/pos-app/controllers"
	"github.com/cafepos/pos-app/middlewares"
	"github.com/cafepos/pos-app/realtime"
)

func SetupRouter(db *gorm.DB, hub *realtime.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	itemCtrl := controllers.NewItemController(db, hub)
	orderCtrl := controllers.NewOrderController(db, hub)
	settingsCtrl := controllers.NewSettingsController(db, hub)
	dashboardCtrl := controllers.NewDashboardController(db)
	wsCtrl := controllers.NewWSController(hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.GET("/profile", userCtrl.GetProfile)

	// MENU (all terminals read; mutations broadcast to the hub)
	api.GET("/categories", categoryCtrl.GetAllCategories)
	api.GET("/items", itemCtrl.GetAllItems)
	api.GET("/items/by-category", itemCtrl.GetItemsByCategory)
	api.GET("/items/:item_id", itemCtrl.GetItemByID)
	api.POST("/items", itemCtrl.CreateItem)
	api.PATCH("/items/:item_id", itemCtrl.UpdateItem)
	api.DELETE("/items/:item_id", itemCtrl.DeleteItem)
	api.POST("/categories", categoryCtrl.CreateCategory)
	api.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	api.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

	// ORDERS
	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders", orderCtrl.GetAllOrders)
	api.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// SETTINGS
	api.GET("/settings", settingsCtrl.GetSettings)

	// ADMIN
	admin := api.Group("/")
	admin.Use(middlewares.AdminOnly())
	{
		admin.PATCH("/settings", settingsCtrl.UpdateSettings)
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.GET("/dashboard/stats", dashboardCtrl.GetStats)
	}

	// WebSocket endpoint: token travels as a query parameter
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", wsCtrl.Attach)
	}

	return r
}
