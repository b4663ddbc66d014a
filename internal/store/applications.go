package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hireflow/internal/logging/types"
	"hireflow/pkg/models"
)

// ApplicationStore provides typed access to the applications collection
type ApplicationStore struct {
	client *firestore.Client
	logger types.Logger
}

// ListApplicationsOptions narrows and paginates an application listing
type ListApplicationsOptions struct {
	VacancyID string
	Status    models.ApplicationStatus
	Page      int
	Limit     int
}

// Create persists a new application in the received state and returns its ID
func (s *ApplicationStore) Create(ctx context.Context, a *models.Application) (string, error) {
	now := time.Now()
	ref, _, err := s.client.Collection(applicationsCollection).Add(ctx, map[string]interface{}{
		"vacancyId": a.VacancyID,
		"fullName":  a.FullName,
		"email":     a.Email,
		"phone":     a.Phone,
		"resumeUrl": a.ResumeURL,
		"status":    string(models.ApplicationStatusReceived),
		"createdAt": now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create application: %w", err)
	}

	a.ID = ref.ID
	a.Status = models.ApplicationStatusReceived
	a.CreatedAt = now
	return ref.ID, nil
}

// Get fetches an application by ID, returning ErrNotFound when it does not exist
func (s *ApplicationStore) Get(ctx context.Context, id string) (*models.Application, error) {
	doc, err := s.client.Collection(applicationsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application %s: %w", id, err)
	}
	return applicationFromDoc(doc), nil
}

// List returns applications matching opts, newest first
func (s *ApplicationStore) List(ctx context.Context, opts ListApplicationsOptions) ([]*models.Application, error) {
	query := s.client.Collection(applicationsCollection).Query

	if opts.VacancyID != "" {
		query = query.Where("vacancyId", "==", opts.VacancyID)
	}
	if opts.Status != "" {
		query = query.Where("status", "==", string(opts.Status))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	if opts.Limit > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * opts.Limit).Limit(opts.Limit)
	}

	return s.collect(ctx, query)
}

// ListReceived returns up to max applications for a vacancy that still await
// review. The result order is whatever the store yields; the preselection
// pipeline does not depend on it.
func (s *ApplicationStore) ListReceived(ctx context.Context, vacancyID string, max int) ([]*models.Application, error) {
	query := s.client.Collection(applicationsCollection).
		Where("vacancyId", "==", vacancyID).
		Where("status", "==", string(models.ApplicationStatusReceived)).
		Limit(max)
	return s.collect(ctx, query)
}

// UpdateStatus transitions an application and stamps when it was processed
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id string, as models.ApplicationStatus, processedAt time.Time) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	_, err := s.client.Collection(applicationsCollection).Doc(id).Set(ctx, map[string]interface{}{
		"status":          string(as),
		"lastProcessedAt": processedAt,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", id, err)
	}
	return nil
}

// Annotate merges diagnostic fields into an application. Callers treat
// failures as best-effort and must not let them interrupt processing.
func (s *ApplicationStore) Annotate(ctx context.Context, id string, fields map[string]interface{}) error {
	_, err := s.client.Collection(applicationsCollection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to annotate application %s: %w", id, err)
	}
	return nil
}

func (s *ApplicationStore) collect(ctx context.Context, query firestore.Query) ([]*models.Application, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []*models.Application
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list applications: %w", err)
		}
		out = append(out, applicationFromDoc(doc))
	}
	return out, nil
}
