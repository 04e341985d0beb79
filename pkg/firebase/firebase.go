package firebase

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/unilinkng/backend/pkg/config"
)

// App wraps the Firebase app with the auth client the middleware needs
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase builds the auth client from the configured service
// account credentials. Token verification is the only Firebase surface
// this service uses.
func InitFirebase(ctx context.Context, cfg *config.Config) (*App, error) {
	path := cfg.FirebaseCredentialsPath
	if path == "" {
		return nil, fmt.Errorf("firebase credentials path is not configured")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file missing at %s", path)
	}

	firebaseApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(path))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("building firebase auth client: %w", err)
	}

	log.Println("Firebase auth client ready")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}
