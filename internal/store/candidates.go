package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"hireflow/internal/logging/types"
	"hireflow/pkg/models"
)

// CandidateStore provides typed access to the standing candidate corpus
type CandidateStore struct {
	client *firestore.Client
	logger types.Logger
}

// AddAll bulk-imports candidate profiles, returning the number written
func (s *CandidateStore) AddAll(ctx context.Context, profiles []*models.CandidateProfile) (int, error) {
	bw := s.client.BulkWriter(ctx)
	col := s.client.Collection(candidatesCollection)

	count := 0
	for _, p := range profiles {
		data := map[string]interface{}{
			"fullName":  p.FullName,
			"email":     p.Email,
			"skills":    p.Skills,
			"resumeUrl": p.ResumeURL,
		}
		if _, err := bw.Create(col.NewDoc(), data); err != nil {
			return count, fmt.Errorf("failed to enqueue candidate write: %w", err)
		}
		count++
	}
	bw.End()

	s.logger.Info("Candidate profiles imported", map[string]interface{}{
		"count": count,
	})
	return count, nil
}

// List returns every candidate profile in the corpus
func (s *CandidateStore) List(ctx context.Context) ([]*models.CandidateProfile, error) {
	iter := s.client.Collection(candidatesCollection).Documents(ctx)
	defer iter.Stop()

	var out []*models.CandidateProfile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list candidates: %w", err)
		}
		out = append(out, candidateFromDoc(doc))
	}
	return out, nil
}

// DeleteAll wipes the candidate corpus, returning the number removed
func (s *CandidateStore) DeleteAll(ctx context.Context) (int, error) {
	iter := s.client.Collection(candidatesCollection).Documents(ctx)
	defer iter.Stop()

	bw := s.client.BulkWriter(ctx)
	count := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to scan candidates: %w", err)
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			return count, fmt.Errorf("failed to enqueue candidate delete: %w", err)
		}
		count++
	}
	bw.End()

	s.logger.Info("Candidate corpus cleared", map[string]interface{}{
		"count": count,
	})
	return count, nil
}
