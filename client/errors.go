package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Messages used for failures that happen before a response is received.
const (
	msgCancelled    = "Requisição cancelada/expirada"
	msgNetwork      = "Falha de rede"
	msgHTTPFallback = "Erro HTTP"
)

// Error is the single failure shape returned by every Client call.
//
// Status is the HTTP status code, or 0 when no response was received
// (network failure, cancellation, timeout). Body holds the parsed
// response body: decoded JSON when it parsed, the raw text otherwise.
type Error struct {
	Message string
	Status  int
	Body    any
	URL     string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorBody is the error payload the API returns for non-2xx responses.
// Every field is optional.
type ErrorBody struct {
	Code    string          `json:"code,omitempty"`
	Message json.RawMessage `json:"message,omitempty"`
	Details any             `json:"details,omitempty"`
}

// Text returns the message as a string and whether one was present.
// Non-string messages are returned in their JSON form.
func (b ErrorBody) Text() (string, bool) {
	if len(b.Message) == 0 || string(b.Message) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(b.Message, &s); err == nil {
		return s, true
	}
	return string(b.Message), true
}

// ValidationError reports input rejected before any request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// StatusOf returns the HTTP status carried by err, 0 if none.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}

// IsUnauthorized reports whether err means the session is missing or expired.
func IsUnauthorized(err error) bool { return IsStatus(err, http.StatusUnauthorized) }

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return IsStatus(err, http.StatusNotFound) }

// IsCancelled reports whether err is a request that was cancelled or timed out.
func IsCancelled(err error) bool {
	var e *Error
	if !errors.As(err, &e) || e.Status != 0 {
		return false
	}
	return errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsValidation reports whether err was produced by client-side validation.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
