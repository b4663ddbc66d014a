package models

import "time"

// ApplicationStatus represents the review state of a candidate submission
type ApplicationStatus string

const (
	ApplicationStatusReceived  ApplicationStatus = "received"
	ApplicationStatusInReview  ApplicationStatus = "in_review"
	ApplicationStatusInterview ApplicationStatus = "interview"
	ApplicationStatusFinalist  ApplicationStatus = "finalist"
	ApplicationStatusDiscarded ApplicationStatus = "discarded"
)

// ValidApplicationStatus reports whether s is a known application status
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusReceived, ApplicationStatusInReview, ApplicationStatusInterview,
		ApplicationStatusFinalist, ApplicationStatusDiscarded:
		return true
	}
	return false
}

// Application represents one candidate's submission against a vacancy.
// Processing fields (LastProcessedAt, ProcessingError, RejectionReason) are
// best-effort annotations written by the preselection pipeline.
type Application struct {
	ID              string                 `json:"id" firestore:"-"`
	VacancyID       string                 `json:"vacancy_id" firestore:"vacancyId"`
	FullName        string                 `json:"full_name" firestore:"fullName"`
	Email           string                 `json:"email" firestore:"email"`
	Phone           string                 `json:"phone" firestore:"phone"`
	ResumeURL       string                 `json:"resume_url" firestore:"resumeUrl"`
	Status          ApplicationStatus      `json:"status" firestore:"status"`
	CreatedAt       time.Time              `json:"created_at" firestore:"createdAt"`
	LastProcessedAt time.Time              `json:"last_processed_at,omitempty" firestore:"lastProcessedAt"`
	ProcessingError string                 `json:"processing_error,omitempty" firestore:"processingError"`
	RejectionReason string                 `json:"rejection_reason,omitempty" firestore:"rejectionReason"`
	Extra           map[string]interface{} `json:"-" firestore:"-"`
}

// CandidateProfile is one record of the standing candidate corpus that can be
// bulk-imported into the document store for preselection experiments
type CandidateProfile struct {
	ID        string                 `json:"id" firestore:"-"`
	FullName  string                 `json:"full_name" firestore:"fullName"`
	Email     string                 `json:"email" firestore:"email"`
	Skills    []string               `json:"skills,omitempty" firestore:"skills"`
	ResumeURL string                 `json:"resume_url,omitempty" firestore:"resumeUrl"`
	Extra     map[string]interface{} `json:"-" firestore:"-"`
}
