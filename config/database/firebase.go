package database

import (
	"SnapPlate/config/environment"
	"context"
	"encoding/base64"
	"log"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

var FirebaseApp *firebase.App
var FirestoreClient *firestore.Client
var AuthClient *auth.Client
var StorageBucket *storage.BucketHandle

// InitFirebase initializes the Firestore, Auth and Storage clients.
func InitFirebase() {
	encodedCredentials := environment.GetFirebaseKey()
	if encodedCredentials == "" {
		log.Fatal("FIREBASE_CREDENTIALS_BASE64 environment variable is missing")
	}

	decodedCredentials, err := base64.StdEncoding.DecodeString(encodedCredentials)
	if err != nil {
		log.Fatalf("Failed to decode Firebase credentials: %v", err)
	}

	projectID := environment.GetFirebaseProjectID()
	if projectID == "" {
		log.Fatal("FIREBASE_PROJECT_ID environment variable is missing")
	}

	ctx := context.Background()
	credentials := option.WithCredentialsJSON(decodedCredentials)

	config := &firebase.Config{
		ProjectID:     projectID,
		StorageBucket: environment.GetStorageBucket(),
	}
	app, err := firebase.NewApp(ctx, config, credentials)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase app: %v", err)
	}
	FirebaseApp = app

	FirestoreClient, err = app.Firestore(ctx)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	log.Println("Firebase Firestore initialized successfully")

	AuthClient, err = app.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth client: %v", err)
	}
	log.Println("Firebase Auth initialized successfully")

	storageClient, err := app.Storage(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Storage client: %v", err)
	}
	StorageBucket, err = storageClient.DefaultBucket()
	if err != nil {
		log.Fatalf("Failed to get default storage bucket: %v", err)
	}
	log.Println("Firebase Storage initialized successfully")
}

// GetFirestoreClient returns the Firestore client instance
func GetFirestoreClient() *firestore.Client {
	return FirestoreClient
}

func GetFirebaseAuthClient() *auth.Client {
	return AuthClient
}

func GetStorageBucket() *storage.BucketHandle {
	return StorageBucket
}
