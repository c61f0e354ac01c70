package services

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Estimation pipeline failures. Each one aborts the whole resolve; nothing is
// persisted and nothing is retried.
var (
	ErrNoResponse          = errors.New("no response from estimation service")
	ErrMalformedResponse   = errors.New("malformed estimation response")
	ErrModerationService   = errors.New("error moderating content")
	ErrPersistenceConflict = errors.New("resolved item key already exists")
	ErrItemNotFound        = errors.New("resolved item not found")
)

var (
	ErrNotFound               = errors.New("not found")
	ErrForbidden              = errors.New("forbidden")
	ErrUserExists             = errors.New("user with this email or username already exists")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidVerification    = errors.New("invalid verification code")
	ErrUnsupportedAlgorithm   = errors.New("unsupported algorithm")
	ErrWellnessDataExists     = errors.New("data already exists for this date")
	ErrProfileWeightMissing   = errors.New("user profile weight not set")
	ErrVerificationChannelNil = errors.New("user has no address for this verification type")
)

// ContentModerationError is returned when the moderation gate flags a prompt.
// It serializes to the body clients already parse:
// {name, message, errorCode, statusCode}.
type ContentModerationError struct {
	Message string
}

func NewContentModerationError(message string) *ContentModerationError {
	return &ContentModerationError{Message: message}
}

func (e *ContentModerationError) Error() string { return e.Message }

func (e *ContentModerationError) StatusCode() int { return http.StatusBadRequest }

func (e *ContentModerationError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name       string `json:"name"`
		Message    string `json:"message"`
		ErrorCode  string `json:"errorCode"`
		StatusCode int    `json:"statusCode"`
	}{
		Name:       "ContentModerationError",
		Message:    e.Message,
		ErrorCode:  "content_moderation",
		StatusCode: e.StatusCode(),
	})
}

// InputError is a request the caller can fix; Message is shown verbatim.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func invalidInput(message string) error {
	return &InputError{Message: message}
}
