package services

import (
	"SnapPlate/config/environment"
	"SnapPlate/models"
	"SnapPlate/utils"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
)

const (
	geminiModel          = "gemini-2.5-flash"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// phoneWindowSize bounds how far past a restaurant title the narrative
	// is searched for that restaurant's phone number.
	phoneWindowSize = 400

	fallbackResponseText = "I couldn't identify the dish."
	fallbackDescription  = "A tasty-looking dish. Point your camera at it again for a closer look."
)

const dishPrompt = `You are a food expert. Look at this photo of a dish and:
1. Identify the dish. Put the dish name on the first line by itself, then summarize its flavor profile in two or three short lines.
2. Use Google Maps to find three highly rated restaurants nearby that serve this dish.
3. For each restaurant, write its name followed immediately by its phone number on the same line, formatted exactly as "Phone: <number>".`

var (
	labeledPhoneRegex   = regexp.MustCompile(`(?i)Phone:\s*(\+?[0-9][0-9()\s-]{5,}[0-9])`)
	barePhoneRegex      = regexp.MustCompile(`\+[0-9][0-9()\s-]{6,}[0-9]`)
	markdownMarkerRegex = regexp.MustCompile("[*_#`]+")
)

// GeminiService sends dish photos to the generateContent endpoint with the
// Maps grounding tool enabled and turns the answer into a DishAnalysisResult.
type GeminiService struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

func NewGeminiService() *GeminiService {
	return &GeminiService{
		APIKey:     environment.GetGeminiKey(),
		BaseURL:    defaultGeminiBaseURL,
		Model:      geminiModel,
		HTTPClient: &http.Client{},
	}
}

// IdentifyDish runs one multimodal request: identify the dish in the image,
// find nearby restaurants through the grounding tool, then enrich the
// returned place chunks with phone numbers recovered from the narrative.
// Results are all-or-nothing; any transport or model failure surfaces as a
// single analysis error.
func (s *GeminiService) IdentifyDish(ctx context.Context, imageData []byte, mimeType string, location *models.LocationData) (*models.DishAnalysisResult, error) {
	request := models.GeminiRequest{
		Contents: []models.GeminiContent{
			{
				Role: "user",
				Parts: []models.GeminiPart{
					{InlineData: &models.GeminiInlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(imageData),
					}},
					{Text: dishPrompt},
				},
			},
		},
		Tools: []models.GeminiTool{
			{GoogleMaps: &models.GoogleMapsTool{}},
		},
	}
	if location != nil {
		request.ToolConfig = &models.GeminiToolConfig{
			RetrievalConfig: &models.RetrievalConfig{
				LatLng: &models.GeminiLatLng{
					Latitude:  location.Latitude,
					Longitude: location.Longitude,
				},
			},
		}
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, analysisFailed(err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", s.BaseURL, s.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, analysisFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.APIKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, analysisFailed(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, analysisFailed(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, analysisFailed(fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body)))
	}

	var response models.GeminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, analysisFailed(err)
	}

	rawText, chunks := flattenResponse(&response)
	if strings.TrimSpace(rawText) == "" {
		rawText = fallbackResponseText
	}

	dishName, description := parseDishText(rawText)
	enrichChunks(rawText, chunks)

	return &models.DishAnalysisResult{
		DishName:        dishName,
		Description:     description,
		GroundingChunks: chunks,
		RawText:         rawText,
	}, nil
}

func analysisFailed(err error) error {
	log.Println("Dish analysis failed:", err)
	return utils.NewCustomError(http.StatusBadGateway, "Dish analysis failed. Please check the AI service API key and try again.")
}

// flattenResponse joins the candidate's text parts and pulls out the
// grounding chunks, which may be empty.
func flattenResponse(response *models.GeminiResponse) (string, []models.GroundingChunk) {
	if len(response.Candidates) == 0 {
		return "", nil
	}

	candidate := response.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	var chunks []models.GroundingChunk
	if candidate.GroundingMetadata != nil {
		chunks = candidate.GroundingMetadata.GroundingChunks
	}
	return text.String(), chunks
}

// parseDishText reads the dish name from the first non-blank line, with
// markdown emphasis and heading markers stripped, and the description from
// the next up-to-three non-blank lines joined with spaces.
func parseDishText(rawText string) (string, string) {
	var lines []string
	for _, line := range strings.Split(rawText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return fallbackResponseText, fallbackDescription
	}

	dishName := strings.TrimSpace(markdownMarkerRegex.ReplaceAllString(lines[0], ""))

	rest := lines[1:]
	if len(rest) > 3 {
		rest = rest[:3]
	}
	description := strings.Join(rest, " ")
	if description == "" {
		description = fallbackDescription
	}
	return dishName, description
}

// enrichChunks attaches a phone number to every chunk whose title can be
// located in the narrative and has a number nearby. Chunks without a match
// are left untouched, in order.
func enrichChunks(rawText string, chunks []models.GroundingChunk) {
	for i := range chunks {
		if chunks[i].Maps == nil || chunks[i].Maps.Title == "" {
			continue
		}
		if phone, ok := ExtractPhoneNear(rawText, chunks[i].Maps.Title); ok {
			chunks[i].Maps.PhoneNumber = phone
		}
	}
}

// ExtractPhoneNear searches a fixed-size window of rawText, starting at the
// first occurrence of title, for a phone number. A "Phone:"-labeled number
// takes precedence over a bare international one. The window size and the
// precedence order are deliberate: the model is instructed to print
// "Phone: <number>" right after each restaurant name, and the window
// tolerates verbose prose around it.
func ExtractPhoneNear(rawText, title string) (string, bool) {
	if title == "" {
		return "", false
	}
	index := strings.Index(rawText, title)
	if index < 0 {
		return "", false
	}

	end := index + phoneWindowSize
	if end > len(rawText) {
		end = len(rawText)
	}
	window := rawText[index:end]

	if match := labeledPhoneRegex.FindStringSubmatch(window); match != nil {
		return strings.TrimSpace(match[1]), true
	}
	if match := barePhoneRegex.FindString(window); match != "" {
		return strings.TrimSpace(match), true
	}
	return "", false
}
