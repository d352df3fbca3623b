package getwvkeys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Params are the inputs of a single key request. They are fixed for the
// lifetime of one Workflow.Run.
type Params struct {
	LicenseURL string `validate:"required,url"`
	PSSH       string `validate:"required,base64"`
	APIKey     string `validate:"required"`
	BuildInfo  string
	Force      bool
	Verbose    bool
	// Headers are sent to the license server on top of DefaultHeaders.
	Headers map[string]string
}

var validate = validator.New()

// DefaultHeaders returns the minimal header set sent to license servers.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Connection": "keep-alive",
		"accept":     "*/*",
	}
}

// LicenseHeaders merges DefaultHeaders with the caller's headers. Caller
// headers win, compared case-insensitively.
func (p Params) LicenseHeaders() map[string]string {
	headers := DefaultHeaders()
	for name, value := range p.Headers {
		for existing := range headers {
			if strings.EqualFold(existing, name) {
				delete(headers, existing)
			}
		}
		headers[name] = value
	}
	return headers
}

func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate params: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("invalid parameters: %s", strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be an absolute URL", fe.Field())
	case "base64":
		return fmt.Sprintf("%s must be standard base64", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}
