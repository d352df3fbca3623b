package getwvkeys

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	opGenerate = "failed to generate license request"
	opLicense  = "failed to get license"
	opDecrypt  = "failed to decrypt license"
)

// NetworkError is returned when a request could not be completed, including timeouts.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the key service or the license server.
//
// Code and Message are set when the body is a JSON object carrying an
// "error" member; otherwise Body holds the raw response text.
type APIError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Structured() bool {
	return e.Code != "" || e.Message != ""
}

func (e *APIError) Error() string {
	if e.Structured() {
		return fmt.Sprintf("%s: [%s] %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: [%d] %s", e.Op, e.StatusCode, e.Body)
}

func newAPIError(op string, status int, body []byte) *APIError {
	e := &APIError{
		Op:         op,
		StatusCode: status,
		Body:       strings.TrimSpace(string(body)),
	}

	if !gjson.ValidBytes(body) {
		return e
	}
	doc := gjson.ParseBytes(body)
	if doc.IsObject() && doc.Get("error").Exists() {
		e.Code = doc.Get("code").String()
		e.Message = doc.Get("message").String()
	}

	return e
}

// ProtocolError is a 2xx response that lacks a field the workflow needs.
type ProtocolError struct {
	Op     string
	Field  string
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: response field %q %s", e.Op, e.Field, e.Reason)
}
