// Package recruitment implements the CV preselection pipeline: batched
// ingestion of candidate resumes into the vector index, a single similarity
// ranking per vacancy, and the resulting status fan-out.
package recruitment

import (
	"context"
	"time"

	"hireflow/internal/config"
	"hireflow/internal/extractor"
	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
	"hireflow/internal/vectorstore"
	"hireflow/pkg/models"
)

// Vacancies is the slice of the document store the pipeline reads vacancies
// through
type Vacancies interface {
	Get(ctx context.Context, id string) (*models.Vacancy, error)
	UpdateStatus(ctx context.Context, id string, status models.VacancyStatus) error
}

// Applications is the slice of the document store the pipeline updates
// applications through
type Applications interface {
	Get(ctx context.Context, id string) (*models.Application, error)
	ListReceived(ctx context.Context, vacancyID string, max int) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, processedAt time.Time) error
	Annotate(ctx context.Context, id string, fields map[string]interface{}) error
}

// Candidates is the standing candidate corpus used by the maintenance
// operations
type Candidates interface {
	AddAll(ctx context.Context, profiles []*models.CandidateProfile) (int, error)
	List(ctx context.Context) ([]*models.CandidateProfile, error)
	DeleteAll(ctx context.Context) (int, error)
}

// Notifier delivers candidate-facing notifications. Delivery failures are
// logged by the pipeline, never propagated.
type Notifier interface {
	SendRejectionEmail(ctx context.Context, to, fullName, vacancyTitle, reason string) error
}

// Options are the batching knobs of one preselection run
type Options struct {
	BatchSize           int
	DelayBetweenBatches time.Duration
	MaxApplications     int
}

// Deps collects the collaborators of the Service
type Deps struct {
	Vacancies    Vacancies
	Applications Applications
	Candidates   Candidates
	Provider     vectorstore.Provider
	Extractor    extractor.TextExtractor
	Notifier     Notifier
}

// Service orchestrates preselection runs
type Service struct {
	vacancies    Vacancies
	applications Applications
	candidates   Candidates
	provider     vectorstore.Provider
	extractor    extractor.TextExtractor
	notifier     Notifier
	defaults     Options
	sleep        func(ctx context.Context, d time.Duration)
	logger       types.Logger
}

// NewService creates the pipeline with defaults taken from configuration
func NewService(cfg *config.Config, deps Deps) *Service {
	defaults := Options{
		BatchSize:           cfg.Recruitment.BatchSize,
		DelayBetweenBatches: cfg.Recruitment.DelayBetweenBatches,
		MaxApplications:     cfg.Recruitment.MaxApplications,
	}
	if defaults.BatchSize <= 0 {
		defaults.BatchSize = 10
	}
	if defaults.DelayBetweenBatches < 0 {
		defaults.DelayBetweenBatches = time.Second
	}
	if defaults.MaxApplications <= 0 {
		defaults.MaxApplications = 200
	}

	return &Service{
		vacancies:    deps.Vacancies,
		applications: deps.Applications,
		candidates:   deps.Candidates,
		provider:     deps.Provider,
		extractor:    deps.Extractor,
		notifier:     deps.Notifier,
		defaults:     defaults,
		sleep:        sleepWithContext,
		logger:       logging.GetGlobalLogger(),
	}
}

// options merges per-run tuning over the configured defaults
func (s *Service) options(tuning *models.PreselectionTuning) Options {
	opts := s.defaults
	if tuning == nil {
		return opts
	}
	if tuning.BatchSize > 0 {
		opts.BatchSize = tuning.BatchSize
	}
	if tuning.DelayBetweenBatches > 0 {
		opts.DelayBetweenBatches = time.Duration(tuning.DelayBetweenBatches) * time.Millisecond
	}
	if tuning.MaxApplications > 0 {
		opts.MaxApplications = tuning.MaxApplications
	}
	return opts
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
