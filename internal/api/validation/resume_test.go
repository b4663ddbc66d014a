package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestResumeURLValidation(t *testing.T) {
	v := validator.New()
	RegisterApplicationValidators(v)

	cases := []struct {
		url   string
		valid bool
	}{
		{"https://cdn.example.com/resumes/ada.pdf", true},
		{"http://example.com/resume", true},
		{"HTTPS://example.com/resume.pdf", true},
		{"ftp://example.com/resume.pdf", false},
		{"file:///tmp/resume.pdf", false},
		{"/resumes/ada.pdf", false},
		{"https://", false},
		{"not a url", false},
		{"", false},
	}

	for _, tc := range cases {
		err := v.Var(tc.url, "resume_url")
		if tc.valid && err != nil {
			t.Errorf("expected %q to validate, got %v", tc.url, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("expected %q to be rejected", tc.url)
		}
	}
}
