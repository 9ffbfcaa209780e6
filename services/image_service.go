package services

import (
	"SnapPlate/utils"
	"bytes"
	"encoding/base64"
	"image"
	"image/draw"
	"image/jpeg"
	"net/http"

	_ "image/gif"
	_ "image/png"
)

const jpegQuality = 85

// ImageService re-encodes user-selected images into a format the AI
// endpoint accepts.
type ImageService struct{}

func NewImageService() *ImageService {
	return &ImageService{}
}

// Normalize decodes an arbitrary image, flattens it onto an opaque white
// background at its natural size and re-encodes it as JPEG. It returns the
// JPEG bytes together with a data URI for client preview.
func (s *ImageService) Normalize(data []byte) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", utils.NewCustomError(http.StatusUnprocessableEntity, "Failed to process image")
	}

	// Flatten alpha onto white so transparent PNGs survive JPEG encoding.
	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", utils.NewCustomError(http.StatusUnprocessableEntity, "Failed to process image")
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return buf.Bytes(), "data:image/jpeg;base64," + encoded, nil
}
