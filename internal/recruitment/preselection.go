package recruitment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hireflow/pkg/models"
)

const (
	// metadata keys stored with every resume vector
	metadataCandidateID = "candidateId"
	metadataVacancyID   = "vacancyId"
	metadataProcessedAt = "processedAt"

	// rejectionReason is written to discarded applications and included in the
	// rejection email
	rejectionReason = "Your profile was not selected for the next stage of this vacancy."
)

// Preselection runs the full pipeline for one vacancy: ingest every pending
// application in rate-limited batches, rank them against the vacancy text with
// a single similarity query, keep the top amount candidates in review and
// discard the rest, then close the vacancy.
//
// On error the returned result still carries whatever counts were established
// before the failure.
func (s *Service) Preselection(ctx context.Context, vacancyID string, amount int, tuning *models.PreselectionTuning) (*models.PreselectionResult, error) {
	opts := s.options(tuning)
	result := &models.PreselectionResult{VacancyID: vacancyID}

	logger := s.logger.WithField("vacancy_id", vacancyID)

	vacancy, err := s.vacancies.Get(ctx, vacancyID)
	if err != nil {
		return result, err
	}

	apps, err := s.applications.ListReceived(ctx, vacancyID, opts.MaxApplications)
	if err != nil {
		return result, fmt.Errorf("failed to list pending applications: %w", err)
	}
	result.TotalApplications = len(apps)

	if len(apps) == 0 {
		logger.Info("No pending applications, closing vacancy")
		if err := s.vacancies.UpdateStatus(ctx, vacancyID, models.VacancyStatusClosed); err != nil {
			logger.Warn("Failed to close vacancy", map[string]interface{}{"error": err.Error()})
		}
		result.Success = true
		return result, nil
	}

	vs, err := s.provider.GetStore(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to resolve vector store: %w", err)
	}

	logger.Info("Starting preselection ingestion", map[string]interface{}{
		"applications": len(apps),
		"batch_size":   opts.BatchSize,
		"amount":       amount,
	})

	for start := 0; start < len(apps); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(apps) {
			end = len(apps)
		}

		result.Batches = append(result.Batches, s.processBatch(ctx, vs, vacancy, apps[start:end])...)

		// Throttle between batches, never after the last one
		if end < len(apps) {
			s.sleep(ctx, opts.DelayBetweenBatches)
		}
	}

	result.ProcessedCount = len(result.Batches)
	for _, br := range result.Batches {
		if br.Success {
			result.SuccessfulCount++
		} else {
			result.FailureCount++
		}
	}

	matches, err := vs.SimilaritySearchWithScore(ctx, vacancy.SearchText(), amount, vacancyFilter(vacancyID))
	if err != nil {
		return result, fmt.Errorf("similarity ranking failed: %w", err)
	}

	selected := make(map[string]bool, len(matches))
	for _, m := range matches {
		if id, ok := m.Document.Metadata[metadataCandidateID].(string); ok {
			selected[id] = true
		}
	}

	// Every fetched application leaves the received state, whether or not its
	// ingestion succeeded
	now := time.Now()
	var wg sync.WaitGroup
	for _, app := range apps {
		wg.Add(1)
		go func(app *models.Application) {
			defer wg.Done()
			s.settleApplication(ctx, app, vacancy, selected[app.ID], now)
		}(app)
	}
	wg.Wait()

	if err := s.vacancies.UpdateStatus(ctx, vacancyID, models.VacancyStatusClosed); err != nil {
		logger.Warn("Failed to close vacancy after preselection", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Preselection finished", map[string]interface{}{
		"processed": result.ProcessedCount,
		"succeeded": result.SuccessfulCount,
		"failed":    result.FailureCount,
		"selected":  len(selected),
	})

	result.Success = true
	return result, nil
}

func (s *Service) settleApplication(ctx context.Context, app *models.Application, vacancy *models.Vacancy, kept bool, processedAt time.Time) {
	if kept {
		if err := s.applications.UpdateStatus(ctx, app.ID, models.ApplicationStatusInReview, processedAt); err != nil {
			s.logger.Error("Failed to move application into review", map[string]interface{}{
				"application_id": app.ID,
				"error":          err.Error(),
			})
		}
		return
	}

	if err := s.applications.UpdateStatus(ctx, app.ID, models.ApplicationStatusDiscarded, processedAt); err != nil {
		s.logger.Error("Failed to discard application", map[string]interface{}{
			"application_id": app.ID,
			"error":          err.Error(),
		})
	}
	if err := s.applications.Annotate(ctx, app.ID, map[string]interface{}{
		"rejectionReason": rejectionReason,
	}); err != nil {
		s.logger.Warn("Failed to record rejection reason", map[string]interface{}{
			"application_id": app.ID,
			"error":          err.Error(),
		})
	}
	if err := s.notifier.SendRejectionEmail(ctx, app.Email, app.FullName, vacancy.Title, rejectionReason); err != nil {
		s.logger.Warn("Failed to queue rejection email", map[string]interface{}{
			"application_id": app.ID,
			"error":          err.Error(),
		})
	}
}

func vacancyFilter(vacancyID string) map[string]interface{} {
	return map[string]interface{}{
		metadataVacancyID: map[string]interface{}{"$eq": vacancyID},
	}
}
