package handlers

import (
	"SnapPlate/controllers"
	"SnapPlate/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterOrderRoutes(router *gin.RouterGroup, orderController *controllers.OrderController) {
	orderGroup := router.Group("/orders")
	orderGroup.Use(middleware.AuthMiddleware())
	{
		orderGroup.POST("/", orderController.PlaceOrder)
	}
}
