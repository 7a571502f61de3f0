// utils/firebase.go
package utils

import (
	"context"
	"errors"
	"fmt"

	"trinhnail/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// ErrFirebaseNotConfigured is returned when no service account is configured.
var ErrFirebaseNotConfigured = errors.New("firebase: credentials not configured")

// FirestoreClient initializes the Firebase App and returns its Firestore client.
func FirestoreClient(ctx context.Context) (*firestore.Client, error) {
	if config.AppConfig.FirebaseCredentials == "" {
		return nil, ErrFirebaseNotConfigured
	}
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentials)

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Firestore client: %w", err)
	}
	return client, nil
}
