package recruitment

import (
	"context"
	"fmt"

	"hireflow/pkg/models"
)

// RankingPreview answers "who would the next preselection run keep" without
// mutating anything: one similarity query, joined with each candidate's
// current application status where it can be resolved.
func (s *Service) RankingPreview(ctx context.Context, vacancyID string, amount int) ([]models.RankedCandidate, error) {
	vacancy, err := s.vacancies.Get(ctx, vacancyID)
	if err != nil {
		return nil, err
	}

	vs, err := s.provider.GetStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vector store: %w", err)
	}

	matches, err := vs.SimilaritySearchWithScore(ctx, vacancy.SearchText(), amount, vacancyFilter(vacancyID))
	if err != nil {
		return nil, fmt.Errorf("similarity ranking failed: %w", err)
	}

	ranked := make([]models.RankedCandidate, 0, len(matches))
	for _, m := range matches {
		id, _ := m.Document.Metadata[metadataCandidateID].(string)
		rc := models.RankedCandidate{
			CandidateID: id,
			Score:       m.Score,
			Selected:    true,
		}
		if id != "" {
			if app, err := s.applications.Get(ctx, id); err == nil {
				rc.Status = app.Status
			}
		}
		ranked = append(ranked, rc)
	}
	return ranked, nil
}

// ImportCandidates bulk-loads candidate profiles into the standing corpus
func (s *Service) ImportCandidates(ctx context.Context, profiles []*models.CandidateProfile) (int, error) {
	return s.candidates.AddAll(ctx, profiles)
}

// ListCandidates returns the standing candidate corpus
func (s *Service) ListCandidates(ctx context.Context) ([]*models.CandidateProfile, error) {
	return s.candidates.List(ctx)
}

// DeleteCandidates wipes the standing candidate corpus
func (s *Service) DeleteCandidates(ctx context.Context) (int, error) {
	return s.candidates.DeleteAll(ctx)
}

// DeleteIndex removes every vector from the index
func (s *Service) DeleteIndex(ctx context.Context) error {
	return s.provider.Reset(ctx)
}
