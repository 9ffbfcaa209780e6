package models

// Request/response shapes for the generateContent endpoint, hand-rolled to
// cover only the fields this service reads and writes.

type GeminiRequest struct {
	Contents   []GeminiContent   `json:"contents"`
	Tools      []GeminiTool      `json:"tools,omitempty"`
	ToolConfig *GeminiToolConfig `json:"toolConfig,omitempty"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *GeminiInlineData `json:"inlineData,omitempty"`
}

type GeminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GeminiTool enables the Maps grounding tool when GoogleMaps is non-nil.
type GeminiTool struct {
	GoogleMaps *GoogleMapsTool `json:"googleMaps,omitempty"`
}

type GoogleMapsTool struct{}

type GeminiToolConfig struct {
	RetrievalConfig *RetrievalConfig `json:"retrievalConfig,omitempty"`
}

// RetrievalConfig biases grounding retrieval toward the given coordinates.
type RetrievalConfig struct {
	LatLng *GeminiLatLng `json:"latLng,omitempty"`
}

type GeminiLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

type GeminiCandidate struct {
	Content           GeminiContent      `json:"content"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks"`
}

// GroundingChunk is one place candidate from the Maps grounding tool.
type GroundingChunk struct {
	Maps *MapsChunk `json:"maps,omitempty"`
}

// MapsChunk carries the place fields the tool returns. PhoneNumber is never
// present in the raw response; it is attached by the analysis client when a
// number can be recovered from the narrative text.
type MapsChunk struct {
	URI         string `json:"uri,omitempty"`
	Title       string `json:"title,omitempty"`
	Text        string `json:"text,omitempty"`
	PlaceID     string `json:"placeId,omitempty"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
