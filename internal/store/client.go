package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"hireflow/internal/config"
	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
)

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = errors.New("document not found")

// Collection names
const (
	vacanciesCollection    = "vacancies"
	applicationsCollection = "applications"
	candidatesCollection   = "candidate_profiles"
)

// Client owns the Firebase app and the Firestore connection. It is constructed
// once at process start and injected into every component that needs it.
type Client struct {
	app       *firebase.App
	firestore *firestore.Client
	logger    types.Logger
}

// NewClient initializes the Firebase app and connects to Firestore
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	logger := logging.GetGlobalLogger()

	fbConfig := &firebase.Config{
		ProjectID:     cfg.Firebase.ProjectID,
		StorageBucket: cfg.Firebase.StorageBucket,
	}

	var opts []option.ClientOption
	switch {
	case cfg.Firebase.CredentialsJSON != "":
		// Credentials arriving through env vars have their private key
		// newlines escaped
		raw := strings.ReplaceAll(cfg.Firebase.CredentialsJSON, `\n`, "\n")
		opts = append(opts, option.WithCredentialsJSON([]byte(raw)))
	case cfg.Firebase.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to firestore: %w", err)
	}

	logger.Info("Document store client initialized", map[string]interface{}{
		"project_id": cfg.Firebase.ProjectID,
	})

	return &Client{
		app:       app,
		firestore: fs,
		logger:    logger,
	}, nil
}

// App returns the underlying Firebase app for auth/messaging/storage clients
func (c *Client) App() *firebase.App {
	return c.app
}

// Firestore returns the raw Firestore client
func (c *Client) Firestore() *firestore.Client {
	return c.firestore
}

// Vacancies returns the typed vacancy accessor
func (c *Client) Vacancies() *VacancyStore {
	return &VacancyStore{client: c.firestore, logger: c.logger}
}

// Applications returns the typed application accessor
func (c *Client) Applications() *ApplicationStore {
	return &ApplicationStore{client: c.firestore, logger: c.logger}
}

// Candidates returns the typed candidate-profile accessor
func (c *Client) Candidates() *CandidateStore {
	return &CandidateStore{client: c.firestore, logger: c.logger}
}

// Close releases the Firestore connection
func (c *Client) Close() error {
	return c.firestore.Close()
}
