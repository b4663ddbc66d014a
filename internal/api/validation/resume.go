package validation

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// resumeURLSchemes lists the protocols the resume extractor can fetch
var resumeURLSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// ValidateResumeURL accepts absolute http(s) URLs with a host. Relative paths
// and exotic schemes are rejected at intake so a preselection run never sees
// an unfetchable resume location.
func ValidateResumeURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	if !resumeURLSchemes[strings.ToLower(u.Scheme)] {
		return false
	}
	return u.Host != ""
}

// RegisterApplicationValidators registers the custom validators used by the
// application intake surface
func RegisterApplicationValidators(v *validator.Validate) {
	v.RegisterValidation("resume_url", ValidateResumeURL)
}
