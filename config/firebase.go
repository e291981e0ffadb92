package config

import "os"

// FirebaseCredentialsFile points at the service-account key used for FCM.
func FirebaseCredentialsFile() string {
	if path := os.Getenv("FIREBASE_CREDENTIALS_FILE"); path != "" {
		return path
	}
	return "serviceAccountKey.json"
}
