package recruitment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"hireflow/internal/config"
	"hireflow/internal/vectorstore"
	"hireflow/pkg/models"
)

var errMissingVacancy = errors.New("document not found")

type fakeVacancies struct {
	mu       sync.Mutex
	vacancy  *models.Vacancy
	missing  bool
	statuses []models.VacancyStatus
}

func (f *fakeVacancies) Get(_ context.Context, id string) (*models.Vacancy, error) {
	if f.missing {
		return nil, errMissingVacancy
	}
	return f.vacancy, nil
}

func (f *fakeVacancies) UpdateStatus(_ context.Context, _ string, status models.VacancyStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeVacancies) closedOnce(t *testing.T) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statuses) != 1 || f.statuses[0] != models.VacancyStatusClosed {
		t.Errorf("expected exactly one transition to closed, got %v", f.statuses)
	}
}

type fakeApplications struct {
	mu          sync.Mutex
	apps        []*models.Application
	listCalls   int
	statuses    map[string]models.ApplicationStatus
	processedAt map[string]time.Time
	annotations map[string]map[string]interface{}
}

func newFakeApplications(apps []*models.Application) *fakeApplications {
	return &fakeApplications{
		apps:        apps,
		statuses:    make(map[string]models.ApplicationStatus),
		processedAt: make(map[string]time.Time),
		annotations: make(map[string]map[string]interface{}),
	}
}

func (f *fakeApplications) Get(_ context.Context, id string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, app := range f.apps {
		if app.ID == id {
			copied := *app
			if st, ok := f.statuses[id]; ok {
				copied.Status = st
			}
			return &copied, nil
		}
	}
	return nil, errMissingVacancy
}

func (f *fakeApplications) ListReceived(_ context.Context, _ string, max int) ([]*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if len(f.apps) > max {
		return f.apps[:max], nil
	}
	return f.apps, nil
}

func (f *fakeApplications) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	f.processedAt[id] = at
	return nil
}

func (f *fakeApplications) Annotate(_ context.Context, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	merged := f.annotations[id]
	if merged == nil {
		merged = make(map[string]interface{})
		f.annotations[id] = merged
	}
	for k, v := range fields {
		merged[k] = v
	}
	return nil
}

type fakeCandidates struct {
	added    int
	profiles []*models.CandidateProfile
}

func (f *fakeCandidates) AddAll(_ context.Context, profiles []*models.CandidateProfile) (int, error) {
	f.added += len(profiles)
	f.profiles = append(f.profiles, profiles...)
	return len(profiles), nil
}

func (f *fakeCandidates) List(_ context.Context) ([]*models.CandidateProfile, error) {
	return f.profiles, nil
}

func (f *fakeCandidates) DeleteAll(_ context.Context) (int, error) {
	deleted := len(f.profiles)
	f.profiles = nil
	return deleted, nil
}

type fakeNotifier struct {
	mu         sync.Mutex
	rejections []string
}

func (f *fakeNotifier) SendRejectionEmail(_ context.Context, to, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejections = append(f.rejections, to)
	return nil
}

type fakeVectorStore struct {
	mu         sync.Mutex
	added      []vectorstore.Document
	addErrFor  map[string]error
	matches    []vectorstore.Match
	queries    int
	lastQuery  string
	lastK      int
	lastFilter map[string]interface{}
}

func (f *fakeVectorStore) AddDocuments(_ context.Context, docs []vectorstore.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		if err, ok := f.addErrFor[d.ID]; ok {
			return err
		}
	}
	f.added = append(f.added, docs...)
	return nil
}

func (f *fakeVectorStore) SimilaritySearchWithScore(_ context.Context, query string, k int, filter map[string]interface{}) ([]vectorstore.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	f.lastQuery = query
	f.lastK = k
	f.lastFilter = filter
	return f.matches, nil
}

type fakeProvider struct {
	store *fakeVectorStore
	calls int
}

func (f *fakeProvider) GetStore(_ context.Context) (vectorstore.Store, error) {
	f.calls++
	return f.store, nil
}

func (f *fakeProvider) Reset(_ context.Context) error {
	return nil
}

type fakeExtractor struct {
	mu     sync.Mutex
	calls  []string
	errFor map[string]error
}

func (f *fakeExtractor) ExtractText(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if err, ok := f.errFor[url]; ok {
		return "", err
	}
	return "resume text for " + url, nil
}

type pipeline struct {
	service      *Service
	vacancies    *fakeVacancies
	applications *fakeApplications
	notifier     *fakeNotifier
	provider     *fakeProvider
	extractor    *fakeExtractor
	sleeps       *[]time.Duration
}

func selectedMatch(candidateID string, score float32) vectorstore.Match {
	return vectorstore.Match{
		Document: vectorstore.Document{
			Metadata: map[string]interface{}{"candidateId": candidateID},
		},
		Score: score,
	}
}

func testApplications(n int) []*models.Application {
	apps := make([]*models.Application, n)
	for i := range apps {
		id := fmt.Sprintf("app-%d", i+1)
		apps[i] = &models.Application{
			ID:        id,
			VacancyID: "vac-1",
			FullName:  "Candidate " + id,
			Email:     id + "@example.com",
			ResumeURL: "https://cv.example.com/" + id + ".pdf",
			Status:    models.ApplicationStatusReceived,
		}
	}
	return apps
}

func newPipeline(apps []*models.Application) *pipeline {
	vacancies := &fakeVacancies{vacancy: &models.Vacancy{
		ID:               "vac-1",
		Title:            "Backend Engineer",
		Description:      "Build backend services in Go.",
		Responsibilities: "Design APIs.",
		Status:           models.VacancyStatusOpen,
	}}
	applications := newFakeApplications(apps)
	notifier := &fakeNotifier{}
	provider := &fakeProvider{store: &fakeVectorStore{}}
	ext := &fakeExtractor{}

	cfg := &config.Config{}
	cfg.Recruitment.BatchSize = 10
	cfg.Recruitment.DelayBetweenBatches = time.Second
	cfg.Recruitment.MaxApplications = 200

	svc := NewService(cfg, Deps{
		Vacancies:    vacancies,
		Applications: applications,
		Candidates:   &fakeCandidates{},
		Provider:     provider,
		Extractor:    ext,
		Notifier:     notifier,
	})

	sleeps := &[]time.Duration{}
	var mu sync.Mutex
	svc.sleep = func(_ context.Context, d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		*sleeps = append(*sleeps, d)
	}

	return &pipeline{
		service:      svc,
		vacancies:    vacancies,
		applications: applications,
		notifier:     notifier,
		provider:     provider,
		extractor:    ext,
		sleeps:       sleeps,
	}
}

func TestPreselectionPartitionsTopCandidates(t *testing.T) {
	p := newPipeline(testApplications(5))
	p.provider.store.matches = []vectorstore.Match{
		selectedMatch("app-2", 0.95),
		selectedMatch("app-4", 0.91),
	}

	result, err := p.service.Preselection(context.Background(), "vac-1", 2, nil)
	if err != nil {
		t.Fatalf("Preselection: %v", err)
	}

	if !result.Success {
		t.Errorf("expected success")
	}
	if result.TotalApplications != 5 || result.ProcessedCount != 5 {
		t.Errorf("unexpected totals: %+v", result)
	}
	if result.SuccessfulCount+result.FailureCount != result.ProcessedCount {
		t.Errorf("count identity violated: %+v", result)
	}
	if len(result.Batches) != 5 {
		t.Errorf("expected one batch result per application, got %d", len(result.Batches))
	}

	for _, id := range []string{"app-2", "app-4"} {
		if got := p.applications.statuses[id]; got != models.ApplicationStatusInReview {
			t.Errorf("%s: expected in_review, got %s", id, got)
		}
	}
	for _, id := range []string{"app-1", "app-3", "app-5"} {
		if got := p.applications.statuses[id]; got != models.ApplicationStatusDiscarded {
			t.Errorf("%s: expected discarded, got %s", id, got)
		}
		if p.applications.annotations[id]["rejectionReason"] == nil {
			t.Errorf("%s: missing rejection reason annotation", id)
		}
	}

	if len(p.notifier.rejections) != 3 {
		t.Errorf("expected 3 rejection emails, got %d", len(p.notifier.rejections))
	}
	p.vacancies.closedOnce(t)
}

func TestPreselectionNoApplicationLeftInReceived(t *testing.T) {
	apps := testApplications(4)
	apps[1].ResumeURL = ""
	p := newPipeline(apps)
	p.extractor.errFor = map[string]error{
		apps[2].ResumeURL: errors.New("fetch failed"),
	}
	p.provider.store.matches = []vectorstore.Match{selectedMatch("app-1", 0.9)}

	if _, err := p.service.Preselection(context.Background(), "vac-1", 1, nil); err != nil {
		t.Fatalf("Preselection: %v", err)
	}

	for _, app := range apps {
		status, ok := p.applications.statuses[app.ID]
		if !ok {
			t.Errorf("%s was never settled", app.ID)
			continue
		}
		if status == models.ApplicationStatusReceived {
			t.Errorf("%s survived in received state", app.ID)
		}
		if p.applications.processedAt[app.ID].IsZero() {
			t.Errorf("%s missing processing timestamp", app.ID)
		}
	}
}

func TestPreselectionChunkingAndThrottle(t *testing.T) {
	p := newPipeline(testApplications(25))

	result, err := p.service.Preselection(context.Background(), "vac-1", 3, nil)
	if err != nil {
		t.Fatalf("Preselection: %v", err)
	}

	if result.ProcessedCount != 25 {
		t.Errorf("expected 25 processed, got %d", result.ProcessedCount)
	}
	if len(p.extractor.calls) != 25 {
		t.Errorf("expected 25 extractions, got %d", len(p.extractor.calls))
	}
	// 25 applications at batch size 10 make 3 chunks and exactly 2 pauses
	if len(*p.sleeps) != 2 {
		t.Errorf("expected 2 inter-batch delays, got %d", len(*p.sleeps))
	}
	for _, d := range *p.sleeps {
		if d != time.Second {
			t.Errorf("unexpected delay %v", d)
		}
	}
}

func TestPreselectionTuningOverridesDelay(t *testing.T) {
	p := newPipeline(testApplications(6))

	tuning := &models.PreselectionTuning{BatchSize: 2, DelayBetweenBatches: 250}
	if _, err := p.service.Preselection(context.Background(), "vac-1", 1, tuning); err != nil {
		t.Fatalf("Preselection: %v", err)
	}

	if len(*p.sleeps) != 2 {
		t.Fatalf("expected 2 delays for 3 chunks, got %d", len(*p.sleeps))
	}
	if (*p.sleeps)[0] != 250*time.Millisecond {
		t.Errorf("tuned delay not applied: %v", (*p.sleeps)[0])
	}
}

func TestPreselectionZeroApplicationsShortCircuits(t *testing.T) {
	p := newPipeline(nil)

	result, err := p.service.Preselection(context.Background(), "vac-1", 5, nil)
	if err != nil {
		t.Fatalf("Preselection: %v", err)
	}

	if !result.Success || result.TotalApplications != 0 || result.ProcessedCount != 0 {
		t.Errorf("unexpected result %+v", result)
	}
	if p.provider.calls != 0 {
		t.Errorf("vector store must not be touched without applications")
	}
	if len(p.extractor.calls) != 0 {
		t.Errorf("extractor must not be touched without applications")
	}
	// The vacancy still closes
	p.vacancies.closedOnce(t)
}

func TestPreselectionMissingVacancyWritesNothing(t *testing.T) {
	p := newPipeline(testApplications(3))
	p.vacancies.missing = true

	result, err := p.service.Preselection(context.Background(), "vac-1", 2, nil)
	if err == nil {
		t.Fatal("expected error for missing vacancy")
	}
	if result.Success || result.ProcessedCount != 0 {
		t.Errorf("expected zeroed failure result, got %+v", result)
	}
	if p.applications.listCalls != 0 {
		t.Errorf("applications must not be listed for a missing vacancy")
	}
	if len(p.applications.statuses) != 0 || len(p.vacancies.statuses) != 0 {
		t.Errorf("no writes may happen for a missing vacancy")
	}
}

func TestPreselectionNoResumeSkipsExtractor(t *testing.T) {
	apps := testApplications(2)
	apps[0].ResumeURL = ""
	p := newPipeline(apps)

	result, err := p.service.Preselection(context.Background(), "vac-1", 1, nil)
	if err != nil {
		t.Fatalf("Preselection: %v", err)
	}

	var noResume *models.BatchResult
	for i := range result.Batches {
		if result.Batches[i].ID == "app-1" {
			noResume = &result.Batches[i]
		}
	}
	if noResume == nil || noResume.Success {
		t.Fatalf("expected failed batch result for app-1: %+v", result.Batches)
	}
	if noResume.Error != noResumeError {
		t.Errorf("unexpected error text %q", noResume.Error)
	}
	for _, url := range p.extractor.calls {
		if strings.Contains(url, "app-1") {
			t.Errorf("extractor was called for an application without resume")
		}
	}
	if result.SuccessfulCount != 1 || result.FailureCount != 1 {
		t.Errorf("unexpected counts %+v", result)
	}
}

func TestPreselectionTruncatesLongErrors(t *testing.T) {
	apps := testApplications(1)
	p := newPipeline(apps)
	p.extractor.errFor = map[string]error{
		apps[0].ResumeURL: errors.New(strings.Repeat("x", 800)),
	}

	result, err := p.service.Preselection(context.Background(), "vac-1", 1, nil)
	if err != nil {
		t.Fatalf("Preselection: %v", err)
	}

	if got := len(result.Batches[0].Error); got != maxErrorLength {
		t.Errorf("expected error truncated to %d chars, got %d", maxErrorLength, got)
	}
	annotated, _ := p.applications.annotations["app-1"]["processingError"].(string)
	if len(annotated) != maxErrorLength {
		t.Errorf("expected annotation truncated to %d chars, got %d", maxErrorLength, len(annotated))
	}
}

func TestPreselectionRunsSingleFilteredQuery(t *testing.T) {
	p := newPipeline(testApplications(3))

	if _, err := p.service.Preselection(context.Background(), "vac-1", 7, nil); err != nil {
		t.Fatalf("Preselection: %v", err)
	}

	store := p.provider.store
	if store.queries != 1 {
		t.Fatalf("expected a single similarity query, got %d", store.queries)
	}
	if store.lastK != 7 {
		t.Errorf("expected topK 7, got %d", store.lastK)
	}
	if store.lastQuery != p.vacancies.vacancy.SearchText() {
		t.Errorf("query text must be the vacancy search text, got %q", store.lastQuery)
	}
	cond, ok := store.lastFilter["vacancyId"].(map[string]interface{})
	if !ok || cond["$eq"] != "vac-1" {
		t.Errorf("unexpected filter %v", store.lastFilter)
	}
}

func TestPreselectionHonorsMaxApplications(t *testing.T) {
	p := newPipeline(testApplications(10))

	tuning := &models.PreselectionTuning{MaxApplications: 4}
	result, err := p.service.Preselection(context.Background(), "vac-1", 2, tuning)
	if err != nil {
		t.Fatalf("Preselection: %v", err)
	}
	if result.TotalApplications != 4 || result.ProcessedCount != 4 {
		t.Errorf("cap not honored: %+v", result)
	}
}

func TestRankingPreviewDoesNotMutate(t *testing.T) {
	p := newPipeline(testApplications(3))
	p.provider.store.matches = []vectorstore.Match{
		selectedMatch("app-3", 0.88),
		selectedMatch("app-1", 0.71),
	}

	ranked, err := p.service.RankingPreview(context.Background(), "vac-1", 2)
	if err != nil {
		t.Fatalf("RankingPreview: %v", err)
	}

	if len(ranked) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(ranked))
	}
	if ranked[0].CandidateID != "app-3" || ranked[0].Score != 0.88 {
		t.Errorf("unexpected first row %+v", ranked[0])
	}
	if ranked[0].Status != models.ApplicationStatusReceived {
		t.Errorf("expected joined status received, got %s", ranked[0].Status)
	}

	if len(p.applications.statuses) != 0 || len(p.applications.annotations) != 0 {
		t.Errorf("ranking preview must not write applications")
	}
	if len(p.vacancies.statuses) != 0 {
		t.Errorf("ranking preview must not change the vacancy")
	}
}

func TestCandidateCorpusRoundTrip(t *testing.T) {
	candidates := &fakeCandidates{}
	svc := NewService(&config.Config{}, Deps{Candidates: candidates})

	imported, err := svc.ImportCandidates(context.Background(), []*models.CandidateProfile{
		{FullName: "Ada Lovelace", Email: "ada@example.com"},
		{FullName: "Grace Hopper", Email: "grace@example.com"},
	})
	if err != nil {
		t.Fatalf("ImportCandidates: %v", err)
	}
	if imported != 2 {
		t.Fatalf("expected 2 imported, got %d", imported)
	}

	listed, err := svc.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(listed) != 2 || listed[0].FullName != "Ada Lovelace" {
		t.Errorf("unexpected corpus listing %+v", listed)
	}

	deleted, err := svc.DeleteCandidates(context.Background())
	if err != nil {
		t.Fatalf("DeleteCandidates: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	listed, err = svc.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("ListCandidates after wipe: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("expected empty corpus after wipe, got %d entries", len(listed))
	}
}
