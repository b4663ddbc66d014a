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

// VacancyStore provides typed access to the vacancies collection
type VacancyStore struct {
	client *firestore.Client
	logger types.Logger
}

// ListVacanciesOptions narrows and paginates a vacancy listing.
// Search matches title prefixes; because the backing store cannot combine a
// range filter on one field with an ordering on another, a search-narrowed
// listing is ordered by title rather than creation time.
type ListVacanciesOptions struct {
	Status models.VacancyStatus
	Search string
	Page   int
	Limit  int
}

// Create persists a new vacancy and returns its generated ID
func (s *VacancyStore) Create(ctx context.Context, v *models.Vacancy) (string, error) {
	now := time.Now()
	ref, _, err := s.client.Collection(vacanciesCollection).Add(ctx, map[string]interface{}{
		"recruiterId":      v.RecruiterID,
		"title":            v.Title,
		"description":      v.Description,
		"responsibilities": v.Responsibilities,
		"location":         v.Location,
		"workMode":         v.WorkMode,
		"priority":         v.Priority,
		"status":           string(v.Status),
		"imageUrl":         v.ImageURL,
		"createdAt":        now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create vacancy: %w", err)
	}

	v.ID = ref.ID
	v.CreatedAt = now
	return ref.ID, nil
}

// Get fetches a vacancy by ID, returning ErrNotFound when it does not exist
func (s *VacancyStore) Get(ctx context.Context, id string) (*models.Vacancy, error) {
	doc, err := s.client.Collection(vacanciesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vacancy %s: %w", id, err)
	}
	return vacancyFromDoc(doc), nil
}

// List returns vacancies matching opts, newest first
func (s *VacancyStore) List(ctx context.Context, opts ListVacanciesOptions) ([]*models.Vacancy, error) {
	query := s.client.Collection(vacanciesCollection).Query

	if opts.Status != "" {
		query = query.Where("status", "==", string(opts.Status))
	}
	if opts.Search != "" {
		query = query.Where("title", ">=", opts.Search).
			Where("title", "<=", opts.Search+"\uf8ff").
			OrderBy("title", firestore.Asc)
	} else {
		query = query.OrderBy("createdAt", firestore.Desc)
	}

	if opts.Limit > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * opts.Limit).Limit(opts.Limit)
	}

	return s.collect(ctx, query)
}

// ListByRecruiter returns all vacancies owned by the given recruiter
func (s *VacancyStore) ListByRecruiter(ctx context.Context, recruiterID string) ([]*models.Vacancy, error) {
	query := s.client.Collection(vacanciesCollection).
		Where("recruiterId", "==", recruiterID).
		OrderBy("createdAt", firestore.Desc)
	return s.collect(ctx, query)
}

// Update merges the given fields into an existing vacancy
func (s *VacancyStore) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	updates["updatedAt"] = time.Now()
	_, err := s.client.Collection(vacanciesCollection).Doc(id).Set(ctx, updates, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update vacancy %s: %w", id, err)
	}
	return nil
}

// UpdateStatus transitions a vacancy to the given lifecycle state
func (s *VacancyStore) UpdateStatus(ctx context.Context, id string, vs models.VacancyStatus) error {
	return s.Update(ctx, id, map[string]interface{}{
		"status": string(vs),
	})
}

// Delete removes a vacancy and cascades to its applications
func (s *VacancyStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	removed, err := s.deleteApplications(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete applications for vacancy %s: %w", id, err)
	}

	if _, err := s.client.Collection(vacanciesCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete vacancy %s: %w", id, err)
	}

	s.logger.Info("Vacancy deleted", map[string]interface{}{
		"vacancy_id":           id,
		"applications_removed": removed,
	})
	return nil
}

func (s *VacancyStore) deleteApplications(ctx context.Context, vacancyID string) (int, error) {
	iter := s.client.Collection(applicationsCollection).
		Where("vacancyId", "==", vacancyID).
		Documents(ctx)
	defer iter.Stop()

	bw := s.client.BulkWriter(ctx)
	count := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return count, err
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			return count, err
		}
		count++
	}
	bw.End()
	return count, nil
}

func (s *VacancyStore) collect(ctx context.Context, query firestore.Query) ([]*models.Vacancy, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []*models.Vacancy
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list vacancies: %w", err)
		}
		out = append(out, vacancyFromDoc(doc))
	}
	return out, nil
}
