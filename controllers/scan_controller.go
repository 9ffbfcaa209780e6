package controllers

import (
	"SnapPlate/models"
	"SnapPlate/services"
	"SnapPlate/utils"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ScanController struct {
	ScanService *services.ScanService
}

func NewScanController(scanService *services.ScanService) *ScanController {
	return &ScanController{
		ScanService: scanService,
	}
}

// StartScan accepts the captured dish photo plus optional coordinates and
// kicks off the analysis pipeline.
func (s *ScanController) StartScan(c *gin.Context) {
	userId, exists := c.Get("userId")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UserId is required")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "An image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read image file")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read image file")
		return
	}

	location := parseLocation(c)

	session, err := s.ScanService.StartScan(userId.(string), c.ClientIP(), imageData, location)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, "Scan started", session)
}

func (s *ScanController) GetCurrentScan(c *gin.Context) {
	userId, exists := c.Get("userId")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UserId is required")
		return
	}

	session := s.ScanService.GetSession(userId.(string))
	utils.SuccessResponse(c, http.StatusOK, "Scan fetched successfully", session)
}

func (s *ScanController) ResetScan(c *gin.Context) {
	userId, exists := c.Get("userId")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UserId is required")
		return
	}

	session, err := s.ScanService.Reset(userId.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Scan reset", session)
}

// parseLocation reads optional latitude/longitude form fields; both must be
// present and valid for a location to be used.
func parseLocation(c *gin.Context) *models.LocationData {
	latitudeStr := c.PostForm("latitude")
	longitudeStr := c.PostForm("longitude")
	if latitudeStr == "" || longitudeStr == "" {
		return nil
	}

	latitude, err := strconv.ParseFloat(latitudeStr, 64)
	if err != nil {
		return nil
	}
	longitude, err := strconv.ParseFloat(longitudeStr, 64)
	if err != nil {
		return nil
	}

	return &models.LocationData{Latitude: latitude, Longitude: longitude}
}

func respondError(c *gin.Context, err error) {
	if customErr, ok := err.(*utils.CustomError); ok {
		utils.ErrorResponse(c, customErr.StatusCode, customErr.Message)
		return
	}
	utils.ErrorResponse(c, http.StatusInternalServerError, "Internal Server Error")
}
