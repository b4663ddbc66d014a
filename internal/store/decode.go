package store

import (
	"time"

	"cloud.google.com/go/firestore"

	"hireflow/pkg/models"
)

// Document decoding. Documents may carry fields written by earlier revisions
// of the platform, so decoding pulls the known fields out of the raw map and
// preserves everything else in Extra.

func docString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func docTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}

func docStringSlice(data map[string]interface{}, key string) []string {
	raw, ok := data[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func extraFields(data map[string]interface{}, known ...string) map[string]interface{} {
	extra := make(map[string]interface{})
	for k, v := range data {
		keep := true
		for _, name := range known {
			if k == name {
				keep = false
				break
			}
		}
		if keep {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}

func vacancyFromDoc(doc *firestore.DocumentSnapshot) *models.Vacancy {
	data := doc.Data()
	return &models.Vacancy{
		ID:               doc.Ref.ID,
		RecruiterID:      docString(data, "recruiterId"),
		Title:            docString(data, "title"),
		Description:      docString(data, "description"),
		Responsibilities: docString(data, "responsibilities"),
		Location:         docString(data, "location"),
		WorkMode:         docString(data, "workMode"),
		Priority:         docString(data, "priority"),
		Status:           models.VacancyStatus(docString(data, "status")),
		ImageURL:         docString(data, "imageUrl"),
		CreatedAt:        docTime(data, "createdAt"),
		UpdatedAt:        docTime(data, "updatedAt"),
		Extra: extraFields(data,
			"recruiterId", "title", "description", "responsibilities",
			"location", "workMode", "priority", "status", "imageUrl",
			"createdAt", "updatedAt"),
	}
}

func applicationFromDoc(doc *firestore.DocumentSnapshot) *models.Application {
	data := doc.Data()
	return &models.Application{
		ID:              doc.Ref.ID,
		VacancyID:       docString(data, "vacancyId"),
		FullName:        docString(data, "fullName"),
		Email:           docString(data, "email"),
		Phone:           docString(data, "phone"),
		ResumeURL:       docString(data, "resumeUrl"),
		Status:          models.ApplicationStatus(docString(data, "status")),
		CreatedAt:       docTime(data, "createdAt"),
		LastProcessedAt: docTime(data, "lastProcessedAt"),
		ProcessingError: docString(data, "processingError"),
		RejectionReason: docString(data, "rejectionReason"),
		Extra: extraFields(data,
			"vacancyId", "fullName", "email", "phone", "resumeUrl", "status",
			"createdAt", "lastProcessedAt", "processingError", "rejectionReason"),
	}
}

func candidateFromDoc(doc *firestore.DocumentSnapshot) *models.CandidateProfile {
	data := doc.Data()
	return &models.CandidateProfile{
		ID:        doc.Ref.ID,
		FullName:  docString(data, "fullName"),
		Email:     docString(data, "email"),
		Skills:    docStringSlice(data, "skills"),
		ResumeURL: docString(data, "resumeUrl"),
		Extra:     extraFields(data, "fullName", "email", "skills", "resumeUrl"),
	}
}
