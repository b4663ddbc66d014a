package models

// CreateVacancyRequest represents the request payload for creating a vacancy
type CreateVacancyRequest struct {
	Title            string        `json:"title" validate:"required"`
	Description      string        `json:"description,omitempty"`
	Responsibilities string        `json:"responsibilities,omitempty"`
	Location         string        `json:"location,omitempty"`
	WorkMode         string        `json:"work_mode,omitempty" validate:"omitempty,oneof=onsite remote hybrid"`
	Priority         string        `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Status           VacancyStatus `json:"status,omitempty"`
}

// UpdateVacancyRequest carries partial vacancy updates; nil fields are left
// untouched in the store
type UpdateVacancyRequest struct {
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	Responsibilities *string `json:"responsibilities,omitempty"`
	Location         *string `json:"location,omitempty"`
	WorkMode         *string `json:"work_mode,omitempty" validate:"omitempty,oneof=onsite remote hybrid"`
	Priority         *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

// UpdateVacancyStatusRequest represents a vacancy status transition
type UpdateVacancyStatusRequest struct {
	Status VacancyStatus `json:"status" validate:"required"`
}

// CreateApplicationRequest represents a candidate submission for a vacancy
type CreateApplicationRequest struct {
	VacancyID string `json:"vacancy_id" validate:"required"`
	FullName  string `json:"full_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	ResumeURL string `json:"resume_url" validate:"required,resume_url"`
}

// UpdateApplicationStatusRequest represents an application status transition
type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required"`
}

// PreselectionRequest represents the request payload for a preselection run
type PreselectionRequest struct {
	VacancyID string              `json:"vacancy_id" validate:"required"`
	Amount    int                 `json:"amount" validate:"required,min=1"`
	Options   *PreselectionTuning `json:"options,omitempty"`
}

// PreselectionTuning overrides the configured batching knobs for one run
type PreselectionTuning struct {
	BatchSize           int `json:"batch_size,omitempty" validate:"omitempty,min=1"`
	DelayBetweenBatches int `json:"delay_between_batches_ms,omitempty" validate:"omitempty,min=0"`
	MaxApplications     int `json:"max_applications,omitempty" validate:"omitempty,min=1"`
}

// RankingRequest requests a diagnostic ranking dump without mutation
type RankingRequest struct {
	VacancyID string `json:"vacancy_id" validate:"required"`
	Amount    int    `json:"amount" validate:"required,min=1"`
}

// SendEmailRequest represents a raw email enqueue request
type SendEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// SendPushRequest represents a push notification request
type SendPushRequest struct {
	Token string            `json:"token" validate:"required"`
	Title string            `json:"title" validate:"required"`
	Body  string            `json:"body" validate:"required"`
	Data  map[string]string `json:"data,omitempty"`
}

// SignedURLRequest asks for a time-limited read URL for a stored object
type SignedURLRequest struct {
	ObjectPath string `json:"object_path" validate:"required"`
	ExpiresIn  int    `json:"expires_in_seconds,omitempty" validate:"omitempty,min=1,max=604800"`
}

// CreateUserRequest represents recruiter/admin account creation
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=admin recruiter candidate"`
}

// UpdateRoleRequest changes a user's role claim
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin recruiter candidate"`
}

// UpdatePasswordRequest changes a user's password
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}
