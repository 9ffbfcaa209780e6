package handlers

import (
	"SnapPlate/controllers"
	"SnapPlate/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterScanRoutes(router *gin.RouterGroup, scanController *controllers.ScanController) {
	scanGroup := router.Group("/scans")
	scanGroup.Use(middleware.AuthMiddleware())
	{
		scanGroup.POST("/", scanController.StartScan)
		scanGroup.GET("/current", scanController.GetCurrentScan)
		scanGroup.POST("/reset", scanController.ResetScan)
	}
}
