package environment

import "os"

func GetGeminiKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func GetFirebaseKey() string {
	return os.Getenv("FIREBASE_CREDENTIALS_BASE64")
}

func GetFirebaseProjectID() string {
	return os.Getenv("FIREBASE_PROJECT_ID")
}

func GetStorageBucket() string {
	return os.Getenv("FIREBASE_STORAGE_BUCKET")
}

// GetGeolocationURL returns the IP geolocation endpoint; empty disables the lookup.
func GetGeolocationURL() string {
	return os.Getenv("IP_GEOLOCATION_URL")
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return port
}
