// Package diagnosis holds the failure kinds of the analyze flow and how each
// one surfaces over HTTP.
package diagnosis

import (
	"errors"
	"net/http"

	"plantdoctor/entities"
)

var (
	ErrServerMisconfigured = errors.New("server misconfigured")
	ErrInvalidInput        = errors.New("invalid input")
	ErrResponseFormat      = errors.New("response format error")
	ErrUpstream            = errors.New("upstream error")
)

const (
	detailMisconfigured  = "Server misconfigured: API Key missing."
	detailNotImage       = "File must be an image."
	detailMissingFile    = "File is required."
	detailResponseFormat = "AI response format error."
)

// Error carries one of the Err* kinds, the message shown to the caller and
// the underlying cause.
type Error struct {
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Detail != e.Err.Error() {
		return e.Detail + " (" + e.Err.Error() + ")"
	}
	return e.Detail
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func Misconfigured() error {
	return &Error{Kind: ErrServerMisconfigured, Detail: detailMisconfigured}
}

func NotImage(contentType string) error {
	return &Error{Kind: ErrInvalidInput, Detail: detailNotImage, Err: errors.New("content type " + quote(contentType))}
}

func MissingFile(cause error) error {
	return &Error{Kind: ErrInvalidInput, Detail: detailMissingFile, Err: cause}
}

// ResponseFormat wraps an extraction failure. reason, when set, is appended to
// the detail so strict-schema rejections say which field was wrong.
func ResponseFormat(cause error, reason string) error {
	d := detailResponseFormat
	if reason != "" {
		d = d[:len(d)-1] + ": " + reason
	}
	return &Error{Kind: ErrResponseFormat, Detail: d, Err: cause}
}

// Upstream keeps the cause's message as the detail.
func Upstream(cause error) error {
	return &Error{Kind: ErrUpstream, Detail: cause.Error(), Err: cause}
}

// Detail is the message placed in the {"detail": ...} body.
func Detail(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Detail
	}
	return err.Error()
}

func HTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Outcome maps an analyze result to the audit outcome column.
func Outcome(err error) string {
	switch {
	case err == nil:
		return entities.OutcomeOK
	case errors.Is(err, ErrInvalidInput):
		return entities.OutcomeInvalidInput
	case errors.Is(err, ErrServerMisconfigured):
		return entities.OutcomeMisconfigured
	case errors.Is(err, ErrResponseFormat):
		return entities.OutcomeResponseFormat
	default:
		return entities.OutcomeUpstream
	}
}

func quote(s string) string {
	if s == "" {
		return "<empty>"
	}
	return `"` + s + `"`
}
