package services

import (
	"SnapPlate/config/database"
	"SnapPlate/models"
	"SnapPlate/utils"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/mmcloughlin/geohash"
	"google.golang.org/genproto/googleapis/type/latlng"
)

type leadRecorder interface {
	RecordLead(ctx context.Context, lead models.Lead) error
}

// OrderService turns a staged order into a WhatsApp deep link and reports
// the lead to Firestore in the background. Lead reporting never blocks or
// fails the order action.
type OrderService struct {
	Leads leadRecorder
}

func NewOrderService() *OrderService {
	return &OrderService{
		Leads: &FirestoreLeadRecorder{FirestoreClient: database.GetFirestoreClient()},
	}
}

// PlaceOrder composes the pre-filled message and deep link for the chosen
// restaurant. Orders without a usable phone number are refused.
func (s *OrderService) PlaceOrder(order models.PendingOrder, dishName, userEmail, imageURL string, location *models.LocationData) (string, error) {
	digits := digitsOnly(order.Phone)
	if digits == "" {
		return "", utils.NewCustomError(http.StatusUnprocessableEntity, "No phone number available for this restaurant")
	}

	message := fmt.Sprintf("Hi %s! I'd like to order %s for delivery.", order.Title, dishName)
	if imageURL != "" {
		message += " Here's the dish I mean: " + imageURL
	}
	deepLink := "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)

	lead := models.Lead{
		DishName:        dishName,
		RestaurantName:  order.Title,
		RestaurantPhone: order.Phone,
		UserEmail:       userEmail,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		DishImageURL:    imageURL,
	}
	if location != nil {
		lead.Location = &latlng.LatLng{Latitude: location.Latitude, Longitude: location.Longitude}
		lead.Geohash = geohash.Encode(location.Latitude, location.Longitude)
	}

	go s.recordLeadInBackground(lead)

	return deepLink, nil
}

func (s *OrderService) recordLeadInBackground(lead models.Lead) {
	if s.Leads == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.Leads.RecordLead(ctx, lead); err != nil {
		log.Println("Failed to record lead:", err)
	}
}

func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FirestoreLeadRecorder stores leads in the "leads" collection.
type FirestoreLeadRecorder struct {
	FirestoreClient *firestore.Client
}

func (r *FirestoreLeadRecorder) RecordLead(ctx context.Context, lead models.Lead) error {
	_, _, err := r.FirestoreClient.Collection("leads").Add(ctx, lead)
	return err
}
