package models

import "time"

// VacancyStatus represents the lifecycle state of a vacancy
type VacancyStatus string

const (
	VacancyStatusOpen      VacancyStatus = "open"
	VacancyStatusClosed    VacancyStatus = "closed"
	VacancyStatusPaused    VacancyStatus = "paused"
	VacancyStatusDraft     VacancyStatus = "draft"
	VacancyStatusCancelled VacancyStatus = "cancelled"
)

// ValidVacancyStatus reports whether s is a known vacancy status
func ValidVacancyStatus(s VacancyStatus) bool {
	switch s {
	case VacancyStatusOpen, VacancyStatusClosed, VacancyStatusPaused, VacancyStatusDraft, VacancyStatusCancelled:
		return true
	}
	return false
}

// Vacancy represents a job opening owned by a recruiter.
// Extra carries store fields outside the fixed schema so documents written by
// older revisions keep round-tripping.
type Vacancy struct {
	ID               string                 `json:"id" firestore:"-"`
	RecruiterID      string                 `json:"recruiter_id" firestore:"recruiterId"`
	Title            string                 `json:"title" firestore:"title"`
	Description      string                 `json:"description" firestore:"description"`
	Responsibilities string                 `json:"responsibilities" firestore:"responsibilities"`
	Location         string                 `json:"location" firestore:"location"`
	WorkMode         string                 `json:"work_mode" firestore:"workMode"`
	Priority         string                 `json:"priority" firestore:"priority"`
	Status           VacancyStatus          `json:"status" firestore:"status"`
	ImageURL         string                 `json:"image_url,omitempty" firestore:"imageUrl"`
	CreatedAt        time.Time              `json:"created_at" firestore:"createdAt"`
	UpdatedAt        time.Time              `json:"updated_at,omitempty" firestore:"updatedAt"`
	Extra            map[string]interface{} `json:"-" firestore:"-"`
}

// SearchText builds the query text used to rank candidate resumes against
// this vacancy
func (v *Vacancy) SearchText() string {
	return v.Description + "\n\nResponsibilities:\n" + v.Responsibilities
}
