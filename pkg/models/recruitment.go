package models

// BatchResult is the per-candidate outcome of one ingestion batch. Exactly one
// result is produced for every candidate handed to the batch processor.
type BatchResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PreselectionResult summarizes one end-to-end preselection run for a vacancy.
// SuccessfulCount and FailureCount are tallied from the ingestion batches, not
// from the final selection decision.
type PreselectionResult struct {
	Success           bool          `json:"success"`
	VacancyID         string        `json:"vacancy_id"`
	TotalApplications int           `json:"total_applications"`
	ProcessedCount    int           `json:"processed_count"`
	SuccessfulCount   int           `json:"successful_count"`
	FailureCount      int           `json:"failure_count"`
	Batches           []BatchResult `json:"batches"`
}

// RankedCandidate is one row of the diagnostic ranking dump: a similarity
// match joined with the candidate's would-be selection outcome. No store
// mutation happens when producing these.
type RankedCandidate struct {
	CandidateID string            `json:"candidate_id"`
	Score       float32           `json:"score"`
	Selected    bool              `json:"selected"`
	Status      ApplicationStatus `json:"status"`
}
