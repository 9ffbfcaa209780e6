package route

import (
	"SnapPlate/controllers"
	"SnapPlate/handlers"
	"SnapPlate/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the services together and registers all routes. The
// scan service is shared between the scan and order controllers because it
// owns the per-user sessions.
func RegisterRoutes(router *gin.Engine) {
	scanService := services.NewScanService(
		services.NewGeminiService(),
		services.NewUploadService(),
		services.NewLocationService(),
	)
	orderService := services.NewOrderService()
	userService := services.NewUserService()

	scanController := controllers.NewScanController(scanService)
	orderController := controllers.NewOrderController(scanService, orderService)
	userController := controllers.NewUserController(userService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1Routes := router.Group("/v1")
	{
		handlers.RegisterScanRoutes(v1Routes, scanController)
		handlers.RegisterOrderRoutes(v1Routes, orderController)
		handlers.RegisterUserRoutes(v1Routes, userController)
	}
}
