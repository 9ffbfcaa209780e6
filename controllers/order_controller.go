package controllers

import (
	"SnapPlate/services"
	"SnapPlate/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	ScanService  *services.ScanService
	OrderService *services.OrderService
}

func NewOrderController(scanService *services.ScanService, orderService *services.OrderService) *OrderController {
	return &OrderController{
		ScanService:  scanService,
		OrderService: orderService,
	}
}

// OrderRequest selects one of the current scan's restaurants by index.
type OrderRequest struct {
	PlaceIndex *int `json:"place_index" binding:"required"`
}

// PlaceOrder stages the pending order, composes the WhatsApp deep link and
// reports the lead in the background. Restaurants without a recovered phone
// number are refused before any of that happens.
func (o *OrderController) PlaceOrder(c *gin.Context) {
	userId, exists := c.Get("userId")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UserId is required")
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	order, dishName, imageURL, location, err := o.ScanService.BeginOrder(userId.(string), *req.PlaceIndex)
	if err != nil {
		respondError(c, err)
		return
	}

	userEmail := c.GetString("userEmail")

	deepLink, err := o.OrderService.PlaceOrder(order, dishName, userEmail, imageURL, location)
	if err != nil {
		o.ScanService.CompleteOrder(userId.(string))
		respondError(c, err)
		return
	}

	o.ScanService.CompleteOrder(userId.(string))

	utils.SuccessResponse(c, http.StatusOK, "Order link created", gin.H{
		"deep_link":  deepLink,
		"restaurant": order.Title,
		"dish_name":  dishName,
	})
}
