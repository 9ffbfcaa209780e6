package services

import (
	"SnapPlate/models"
	"SnapPlate/utils"
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	mu        sync.Mutex
	calls     int
	lastLoc   *models.LocationData
	result    *models.DishAnalysisResult
	err       error
	blockedOn chan struct{}
}

func (f *fakeAnalyzer) IdentifyDish(ctx context.Context, imageData []byte, mimeType string, location *models.LocationData) (*models.DishAnalysisResult, error) {
	f.mu.Lock()
	f.calls++
	f.lastLoc = location
	f.mu.Unlock()
	if f.blockedOn != nil {
		<-f.blockedOn
	}
	return f.result, f.err
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAnalyzer) lastLocation() *models.LocationData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastLoc
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) UploadDishImage(ctx context.Context, userID, scanID string, jpegData []byte) (string, error) {
	return f.url, f.err
}

type fakeLocationProvider struct {
	location *models.LocationData
	err      error
}

func (f *fakeLocationProvider) GetLocation(ctx context.Context, clientIP string) (*models.LocationData, error) {
	return f.location, f.err
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func ramenResult() *models.DishAnalysisResult {
	return &models.DishAnalysisResult{
		DishName:    "Spicy Tonkotsu Ramen",
		Description: "Rich pork broth with noodles.",
		GroundingChunks: []models.GroundingChunk{
			{Maps: &models.MapsChunk{Title: "Noodle House", PhoneNumber: "+971501234567"}},
			{Maps: &models.MapsChunk{Title: "Cafe X"}},
		},
		RawText: "Spicy Tonkotsu Ramen\nRich pork broth with noodles.\nNoodle House Phone: +971501234567",
	}
}

func waitForState(t *testing.T, s *ScanService, userID string, state models.ScanState) models.ScanSession {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.GetSession(userID).State == state
	}, 2*time.Second, 10*time.Millisecond)
	return s.GetSession(userID)
}

func TestStartScanReachesResults(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ramenResult()}
	s := NewScanService(analyzer, nil, &fakeLocationProvider{location: &models.LocationData{Latitude: 1, Longitude: 2}})

	session, err := s.StartScan("user-1", "10.0.0.1", testPNG(t), nil)
	require.NoError(t, err)

	// Result must not exist outside RESULTS.
	assert.Equal(t, models.ScanStateAnalyzing, session.State)
	assert.Nil(t, session.AnalysisResult)
	assert.NotEmpty(t, session.PreviewDataURI)

	final := waitForState(t, s, "user-1", models.ScanStateResults)
	require.NotNil(t, final.AnalysisResult)
	assert.Equal(t, "Spicy Tonkotsu Ramen", final.AnalysisResult.DishName)
	assert.Empty(t, final.ErrorMessage)
}

func TestStartScanDecodeFailureSkipsAnalyzer(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ramenResult()}
	s := NewScanService(analyzer, nil, nil)

	session, err := s.StartScan("user-1", "10.0.0.1", []byte("not an image"), nil)
	require.NoError(t, err)

	assert.Equal(t, models.ScanStateError, session.State)
	assert.NotEmpty(t, session.ErrorMessage)
	assert.Nil(t, session.AnalysisResult)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, analyzer.callCount())
}

func TestAnalyzerFailureMovesToError(t *testing.T) {
	analyzer := &fakeAnalyzer{err: utils.NewCustomError(http.StatusBadGateway, "Dish analysis failed. Please check the AI service API key and try again.")}
	s := NewScanService(analyzer, nil, nil)

	_, err := s.StartScan("user-1", "10.0.0.1", testPNG(t), nil)
	require.NoError(t, err)

	final := waitForState(t, s, "user-1", models.ScanStateError)
	assert.Nil(t, final.AnalysisResult)
	assert.Contains(t, final.ErrorMessage, "API key")
}

func TestLocationFailureStillReachesResults(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ramenResult()}
	s := NewScanService(analyzer, nil, &fakeLocationProvider{err: errors.New("timed out")})

	_, err := s.StartScan("user-1", "10.0.0.1", testPNG(t), nil)
	require.NoError(t, err)

	waitForState(t, s, "user-1", models.ScanStateResults)
	assert.Nil(t, analyzer.lastLocation())
}

func TestClientLocationBypassesProvider(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ramenResult()}
	s := NewScanService(analyzer, nil, &fakeLocationProvider{location: &models.LocationData{Latitude: 99, Longitude: 99}})

	_, err := s.StartScan("user-1", "10.0.0.1", testPNG(t), &models.LocationData{Latitude: 25.2, Longitude: 55.3})
	require.NoError(t, err)

	waitForState(t, s, "user-1", models.ScanStateResults)
	loc := analyzer.lastLocation()
	require.NotNil(t, loc)
	assert.InDelta(t, 25.2, loc.Latitude, 1e-9)
}

func TestOverlappingScanRejected(t *testing.T) {
	release := make(chan struct{})
	analyzer := &fakeAnalyzer{result: ramenResult(), blockedOn: release}
	s := NewScanService(analyzer, nil, nil)

	_, err := s.StartScan("user-1", "10.0.0.1", testPNG(t), nil)
	require.NoError(t, err)

	_, err = s.StartScan("user-1", "10.0.0.1", testPNG(t), nil)
	require.Error(t, err)
	customErr, ok := err.(*utils.CustomError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, customErr.StatusCode)

	// A different user is unaffected.
	_, err = s.StartScan("user-2", "10.0.0.2", testPNG(t), nil)
	assert.NoError(t, err)

	close(release)
	waitForState(t, s, "user-1", models.ScanStateResults)
}

func TestResetOnlyFromFinishedStates(t *testing.T) {
	release := make(chan struct{})
	analyzer := &fakeAnalyzer{result: ramenResult(), blockedOn: release}
	s := NewScanService(analyzer, nil, nil)

	_, err := s.StartScan("user-1", "10.0.0.1", testPNG(t), nil)
	require.NoError(t, err)

	_, err = s.Reset("user-1")
	require.Error(t, err)

	close(release)
	waitForState(t, s, "user-1", models.ScanStateResults)

	session, err := s.Reset("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.ScanStateIdle, session.State)
	assert.Nil(t, session.AnalysisResult)

	refreshed := s.GetSession("user-1")
	assert.Equal(t, models.ScanStateIdle, refreshed.State)
	assert.Nil(t, refreshed.AnalysisResult)
}

func TestResetWithoutSession(t *testing.T) {
	s := NewScanService(&fakeAnalyzer{}, nil, nil)
	_, err := s.Reset("nobody")
	assert.Error(t, err)
}

func TestUploadFillsImageURLSlot(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ramenResult()}
	s := NewScanService(analyzer, &fakeUploader{url: "https://storage.googleapis.com/bucket/dishes/u/s.jpg"}, nil)

	_, err := s.StartScan("user-1", "10.0.0.1", testPNG(t), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.GetSession("user-1").ImageURL != ""
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUploadFailureNeverFailsScan(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ramenResult()}
	s := NewScanService(analyzer, &fakeUploader{err: errors.New("bucket unavailable")}, nil)

	_, err := s.StartScan("user-1", "10.0.0.1", testPNG(t), nil)
	require.NoError(t, err)

	final := waitForState(t, s, "user-1", models.ScanStateResults)
	assert.Empty(t, final.ImageURL)
}

func TestBeginOrder(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ramenResult()}
	s := NewScanService(analyzer, nil, nil)

	_, err := s.StartScan("user-1", "10.0.0.1", testPNG(t), nil)
	require.NoError(t, err)
	waitForState(t, s, "user-1", models.ScanStateResults)

	order, dishName, _, _, err := s.BeginOrder("user-1", 0)
	require.NoError(t, err)
	assert.Equal(t, "Noodle House", order.Title)
	assert.Equal(t, "+971501234567", order.Phone)
	assert.Equal(t, "Spicy Tonkotsu Ramen", dishName)
	assert.NotNil(t, s.GetSession("user-1").PendingOrder)

	s.CompleteOrder("user-1")
	assert.Nil(t, s.GetSession("user-1").PendingOrder)
}

func TestBeginOrderRefusedWithoutPhone(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ramenResult()}
	s := NewScanService(analyzer, nil, nil)

	_, err := s.StartScan("user-1", "10.0.0.1", testPNG(t), nil)
	require.NoError(t, err)
	waitForState(t, s, "user-1", models.ScanStateResults)

	// Chunk 1 carries no recovered phone number.
	_, _, _, _, err = s.BeginOrder("user-1", 1)
	require.Error(t, err)
	customErr, ok := err.(*utils.CustomError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, customErr.StatusCode)
	assert.Nil(t, s.GetSession("user-1").PendingOrder)

	_, _, _, _, err = s.BeginOrder("user-1", 5)
	assert.Error(t, err)
}

func TestBeginOrderRequiresResults(t *testing.T) {
	s := NewScanService(&fakeAnalyzer{}, nil, nil)
	_, _, _, _, err := s.BeginOrder("user-1", 0)
	assert.Error(t, err)
}

func TestGetSessionDefaultsToIdle(t *testing.T) {
	s := NewScanService(&fakeAnalyzer{}, nil, nil)
	session := s.GetSession("user-1")
	assert.Equal(t, models.ScanStateIdle, session.State)
	assert.Nil(t, session.AnalysisResult)
	assert.Empty(t, session.ErrorMessage)
}
