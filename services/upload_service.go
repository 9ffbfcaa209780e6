package services

import (
	"SnapPlate/config/database"
	"SnapPlate/config/environment"
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// UploadService writes normalized dish photos to Firebase Storage and
// returns their public URL.
type UploadService struct {
	Bucket     *storage.BucketHandle
	BucketName string
}

func NewUploadService() *UploadService {
	return &UploadService{
		Bucket:     database.GetStorageBucket(),
		BucketName: environment.GetStorageBucket(),
	}
}

func (s *UploadService) UploadDishImage(ctx context.Context, userID, scanID string, jpegData []byte) (string, error) {
	if s.Bucket == nil {
		return "", errors.New("storage bucket is not configured")
	}

	objectName := fmt.Sprintf("dishes/%s/%s.jpg", userID, scanID)
	writer := s.Bucket.Object(objectName).NewWriter(ctx)
	writer.ContentType = "image/jpeg"

	if _, err := writer.Write(jpegData); err != nil {
		writer.Close()
		return "", fmt.Errorf("error uploading dish image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("error finishing dish image upload: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.BucketName, objectName), nil
}
