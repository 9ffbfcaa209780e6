package services

import (
	"SnapPlate/models"
	"SnapPlate/utils"
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type dishAnalyzer interface {
	IdentifyDish(ctx context.Context, imageData []byte, mimeType string, location *models.LocationData) (*models.DishAnalysisResult, error)
}

type imageUploader interface {
	UploadDishImage(ctx context.Context, userID, scanID string, jpegData []byte) (string, error)
}

type locationProvider interface {
	GetLocation(ctx context.Context, clientIP string) (*models.LocationData, error)
}

// ScanService owns the per-user scan sessions and drives each one through
// CAPTURING -> ANALYZING -> RESULTS/ERROR. One pipeline may be in flight per
// user; new captures are refused while one is running.
type ScanService struct {
	ImageService *ImageService
	Location     locationProvider
	Analyzer     dishAnalyzer
	Uploader     imageUploader

	mu       sync.Mutex
	sessions map[string]*models.ScanSession

	// scanLocations keeps the location used for each scan so the eventual
	// lead can carry it; keyed by user like sessions.
	scanLocations map[string]*models.LocationData
}

func NewScanService(analyzer dishAnalyzer, uploader imageUploader, location locationProvider) *ScanService {
	return &ScanService{
		ImageService:  NewImageService(),
		Location:      location,
		Analyzer:      analyzer,
		Uploader:      uploader,
		sessions:      make(map[string]*models.ScanSession),
		scanLocations: make(map[string]*models.LocationData),
	}
}

// StartScan runs the capture flow: normalize synchronously, then analyze in
// the background while the image upload runs fire-and-forget. The returned
// snapshot is already in ANALYZING (or ERROR when the image cannot be
// decoded, in which case the analyzer is never invoked).
func (s *ScanService) StartScan(userID, clientIP string, imageData []byte, location *models.LocationData) (models.ScanSession, error) {
	s.mu.Lock()
	if existing, ok := s.sessions[userID]; ok {
		if existing.State == models.ScanStateCapturing || existing.State == models.ScanStateAnalyzing {
			s.mu.Unlock()
			return models.ScanSession{}, utils.NewCustomError(http.StatusConflict, "A scan is already in progress")
		}
	}

	session := &models.ScanSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		State:     models.ScanStateCapturing,
		CreatedAt: time.Now().UTC(),
	}
	s.sessions[userID] = session
	delete(s.scanLocations, userID)
	s.mu.Unlock()

	jpegData, previewURI, err := s.ImageService.Normalize(imageData)
	if err != nil {
		s.mu.Lock()
		session.State = models.ScanStateError
		session.ErrorMessage = err.Error()
		snapshot := *session
		s.mu.Unlock()
		return snapshot, nil
	}

	s.mu.Lock()
	session.PreviewDataURI = previewURI
	session.State = models.ScanStateAnalyzing
	snapshot := *session
	s.mu.Unlock()

	// Upload never gates the pipeline; its URL lands in the session slot
	// whenever it arrives, or never.
	go s.uploadInBackground(userID, session.ID, jpegData)
	go s.runPipeline(userID, session.ID, clientIP, jpegData, location)

	return snapshot, nil
}

func (s *ScanService) runPipeline(userID, scanID, clientIP string, jpegData []byte, location *models.LocationData) {
	ctx := context.Background()

	if location == nil && s.Location != nil {
		resolved, err := s.Location.GetLocation(ctx, clientIP)
		if err != nil {
			log.Println("Location lookup failed, scanning without location:", err)
		} else {
			location = resolved
		}
	}

	s.mu.Lock()
	s.scanLocations[userID] = location
	s.mu.Unlock()

	result, err := s.Analyzer.IdentifyDish(ctx, jpegData, "image/jpeg", location)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok || session.ID != scanID || session.State != models.ScanStateAnalyzing {
		// Session was reset or replaced underneath us; drop the result.
		return
	}
	if err != nil {
		session.State = models.ScanStateError
		session.ErrorMessage = err.Error()
		return
	}
	session.AnalysisResult = result
	session.State = models.ScanStateResults
}

func (s *ScanService) uploadInBackground(userID, scanID string, jpegData []byte) {
	if s.Uploader == nil {
		return
	}

	publicURL, err := s.Uploader.UploadDishImage(context.Background(), userID, scanID, jpegData)
	if err != nil {
		log.Println("Dish image upload failed:", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[userID]; ok && session.ID == scanID {
		session.ImageURL = publicURL
	}
}

// GetSession returns the caller's current session, or an IDLE placeholder
// when none exists.
func (s *ScanService) GetSession(userID string) models.ScanSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[userID]; ok {
		return *session
	}
	return models.ScanSession{UserID: userID, State: models.ScanStateIdle}
}

// Reset clears a finished session back to IDLE. Resets are only legal from
// RESULTS or ERROR so an in-flight pipeline can never land on a reset
// session.
func (s *ScanService) Reset(userID string) (models.ScanSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return models.ScanSession{}, utils.NewCustomError(http.StatusConflict, "No scan to reset")
	}
	if session.State != models.ScanStateResults && session.State != models.ScanStateError {
		return models.ScanSession{}, utils.NewCustomError(http.StatusConflict, "Cannot reset while a scan is in progress")
	}

	delete(s.sessions, userID)
	delete(s.scanLocations, userID)
	return models.ScanSession{UserID: userID, State: models.ScanStateIdle}, nil
}

// BeginOrder validates the chosen place and stages the pending order. It is
// refused when the session has no results or the place carries no phone
// number.
func (s *ScanService) BeginOrder(userID string, placeIndex int) (models.PendingOrder, string, string, *models.LocationData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok || session.State != models.ScanStateResults {
		return models.PendingOrder{}, "", "", nil, utils.NewCustomError(http.StatusConflict, "No scan results to order from")
	}

	result := session.AnalysisResult
	if placeIndex < 0 || placeIndex >= len(result.GroundingChunks) {
		return models.PendingOrder{}, "", "", nil, utils.NewCustomError(http.StatusBadRequest, "Invalid restaurant selection")
	}

	chunk := result.GroundingChunks[placeIndex]
	if chunk.Maps == nil || chunk.Maps.PhoneNumber == "" {
		return models.PendingOrder{}, "", "", nil, utils.NewCustomError(http.StatusUnprocessableEntity, "No phone number available for this restaurant")
	}

	order := models.PendingOrder{Phone: chunk.Maps.PhoneNumber, Title: chunk.Maps.Title}
	session.PendingOrder = &order
	return order, result.DishName, session.ImageURL, s.scanLocations[userID], nil
}

// CompleteOrder consumes the pending order once a deep link has been issued
// or the client dismissed the provider choice.
func (s *ScanService) CompleteOrder(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[userID]; ok {
		session.PendingOrder = nil
	}
}
