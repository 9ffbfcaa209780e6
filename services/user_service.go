package services

import (
	"SnapPlate/config/database"
	"SnapPlate/models"
	"context"

	"cloud.google.com/go/firestore"
)

type UserService struct {
	FirestoreClient *firestore.Client
}

// NewUserService initializes UserService with FirestoreClient
func NewUserService() *UserService {
	return &UserService{
		FirestoreClient: database.GetFirestoreClient(),
	}
}

func (s *UserService) GetUserProfile(ctx context.Context, userID string) (*models.Profile, error) {
	doc, err := s.FirestoreClient.Collection("users").Doc(userID).Get(ctx)
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, err
	}
	profile.UserID = userID
	return &profile, nil
}
