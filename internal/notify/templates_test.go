package notify

import (
	"strings"
	"testing"
)

func TestRejectionTemplateRendersCandidateFields(t *testing.T) {
	body, err := renderTemplate("rejection.html", rejectionData{
		FullName:     "Ada Lovelace",
		VacancyTitle: "Backend Engineer",
		Reason:       "The role requires on-site presence.",
	})
	if err != nil {
		t.Fatalf("renderTemplate: %v", err)
	}

	for _, want := range []string{"Ada Lovelace", "Backend Engineer", "on-site presence"} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered body missing %q", want)
		}
	}
}

func TestRejectionTemplateOmitsEmptyReason(t *testing.T) {
	body, err := renderTemplate("rejection.html", rejectionData{
		FullName:     "Ada Lovelace",
		VacancyTitle: "Backend Engineer",
	})
	if err != nil {
		t.Fatalf("renderTemplate: %v", err)
	}
	if strings.Contains(body, `<p style="color: #555555;"></p>`) {
		t.Errorf("empty reason paragraph should not render")
	}
}

func TestRejectionTemplateEscapesHTML(t *testing.T) {
	body, err := renderTemplate("rejection.html", rejectionData{
		FullName:     `<script>alert("x")</script>`,
		VacancyTitle: "Backend Engineer",
	})
	if err != nil {
		t.Fatalf("renderTemplate: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Errorf("candidate-controlled input must be escaped")
	}
}

func TestPostulationTemplateRendersVacancyTitle(t *testing.T) {
	body, err := renderTemplate("postulation.html", postulationData{
		FullName:     "Grace Hopper",
		VacancyTitle: "Compiler Engineer",
	})
	if err != nil {
		t.Fatalf("renderTemplate: %v", err)
	}
	if !strings.Contains(body, "Compiler Engineer") {
		t.Errorf("rendered body missing vacancy title")
	}
}
