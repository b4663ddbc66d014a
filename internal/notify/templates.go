package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// rejectionData feeds the rejection email template
type rejectionData struct {
	FullName     string
	VacancyTitle string
	Reason       string
}

// postulationData feeds the application-received email template
type postulationData struct {
	FullName     string
	VacancyTitle string
}

func renderTemplate(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
