package recruitment

import (
	"context"
	"sync"
	"time"

	"hireflow/internal/vectorstore"
	"hireflow/pkg/models"
	"hireflow/pkg/utils"
)

const (
	// noResumeError marks applications submitted without a resume document
	noResumeError = "application has no resume document"

	// maxErrorLength bounds the error text stored per candidate
	maxErrorLength = 500
)

// processBatch ingests one batch of applications concurrently. Exactly one
// BatchResult comes back per input, in input order; a candidate failure never
// disturbs its siblings.
func (s *Service) processBatch(ctx context.Context, vs vectorstore.Store, vacancy *models.Vacancy, batch []*models.Application) []models.BatchResult {
	results := make([]models.BatchResult, len(batch))

	var wg sync.WaitGroup
	for i, app := range batch {
		wg.Add(1)
		go func(i int, app *models.Application) {
			defer wg.Done()
			results[i] = s.processCandidate(ctx, vs, vacancy, app)
		}(i, app)
	}
	wg.Wait()

	return results
}

func (s *Service) processCandidate(ctx context.Context, vs vectorstore.Store, vacancy *models.Vacancy, app *models.Application) models.BatchResult {
	if app.ResumeURL == "" {
		return models.BatchResult{ID: app.ID, Success: false, Error: noResumeError}
	}

	text, err := s.extractor.ExtractText(ctx, app.ResumeURL)
	if err != nil {
		return s.candidateFailure(ctx, app, err)
	}

	doc := vectorstore.Document{
		ID:          app.ID,
		PageContent: text,
		Metadata: map[string]interface{}{
			metadataCandidateID: app.ID,
			metadataVacancyID:   app.VacancyID,
			metadataProcessedAt: time.Now().Format(time.RFC3339),
		},
	}
	if err := vs.AddDocuments(ctx, []vectorstore.Document{doc}); err != nil {
		return s.candidateFailure(ctx, app, err)
	}

	return models.BatchResult{ID: app.ID, Success: true}
}

// candidateFailure records the error on the application (best effort) and
// produces the failed BatchResult
func (s *Service) candidateFailure(ctx context.Context, app *models.Application, err error) models.BatchResult {
	msg := utils.Truncate(err.Error(), maxErrorLength)

	if annErr := s.applications.Annotate(ctx, app.ID, map[string]interface{}{
		"processingError": msg,
	}); annErr != nil {
		s.logger.Warn("Failed to annotate application error", map[string]interface{}{
			"application_id": app.ID,
			"error":          annErr.Error(),
		})
	}

	return models.BatchResult{ID: app.ID, Success: false, Error: msg}
}
