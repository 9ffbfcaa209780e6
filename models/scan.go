package models

import (
	"time"

	"google.golang.org/genproto/googleapis/type/latlng"
)

type LocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ScanState is the lifecycle of one scan session. Exactly one value is
// active at a time; AnalysisResult is only meaningful in RESULTS and
// ErrorMessage only in ERROR.
type ScanState string

const (
	ScanStateIdle      ScanState = "IDLE"
	ScanStateCapturing ScanState = "CAPTURING"
	ScanStateAnalyzing ScanState = "ANALYZING"
	ScanStateResults   ScanState = "RESULTS"
	ScanStateError     ScanState = "ERROR"
)

// DishAnalysisResult is assembled once per successful analysis call and
// immutable afterwards.
type DishAnalysisResult struct {
	DishName        string           `json:"dish_name"`
	Description     string           `json:"description"`
	GroundingChunks []GroundingChunk `json:"grounding_chunks"`
	RawText         string           `json:"raw_text"`
}

// PendingOrder is set when the user picks a result to order from and
// cleared once the deep link is issued.
type PendingOrder struct {
	Phone string `json:"phone"`
	Title string `json:"title"`
}

// ScanSession is the per-user application state.
type ScanSession struct {
	ID             string              `json:"id"`
	UserID         string              `json:"-"`
	State          ScanState           `json:"state"`
	AnalysisResult *DishAnalysisResult `json:"analysis_result,omitempty"`
	ErrorMessage   string              `json:"error_message,omitempty"`
	PreviewDataURI string              `json:"preview_data_uri,omitempty"`
	ImageURL       string              `json:"image_url,omitempty"`
	PendingOrder   *PendingOrder       `json:"pending_order,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// Lead records a user's intent to order a dish from a restaurant.
type Lead struct {
	DishName        string         `firestore:"dish_name" json:"dish_name"`
	RestaurantName  string         `firestore:"restaurant_name" json:"restaurant_name"`
	RestaurantPhone string         `firestore:"restaurant_phone" json:"restaurant_phone"`
	UserEmail       string         `firestore:"user_email,omitempty" json:"user_email,omitempty"`
	Timestamp       string         `firestore:"timestamp" json:"timestamp"`
	DishImageURL    string         `firestore:"dish_image_url,omitempty" json:"dish_image_url,omitempty"`
	Location        *latlng.LatLng `firestore:"location,omitempty" json:"-"`
	Geohash         string         `firestore:"geohash,omitempty" json:"-"`
}

type Profile struct {
	UserID string `firestore:"user_id" json:"user_id"`
	Email  string `firestore:"email" json:"email"`
	Name   string `firestore:"name" json:"name"`
}
