package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrStaleCandidate = errors.New("stale candidate")
	ErrUpload         = errors.New("upload failure")
	ErrPersistence    = errors.New("persistence failure")
	ErrLookup         = errors.New("lookup failure")
)

// Code identifies a failure class surfaced to the UI layer.
type Code string

const (
	CodeValidation         Code = "VALIDATION"
	CodeStaleCandidate     Code = "STALE_CANDIDATE"
	CodeUploadFailure      Code = "UPLOAD_FAILURE"
	CodePersistenceFailure Code = "PERSISTENCE_FAILURE"
	CodeLookupFailure      Code = "LOOKUP_FAILURE"
	CodeInternal           Code = "INTERNAL"
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrPersistence
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps a wrapped error to its failure code. Errors without a known
// marker classify as internal.
func Classify(err error) Code {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrStaleCandidate):
		return CodeStaleCandidate
	case errors.Is(err, ErrUpload):
		return CodeUploadFailure
	case errors.Is(err, ErrPersistence):
		return CodePersistenceFailure
	case errors.Is(err, ErrLookup):
		return CodeLookupFailure
	default:
		return CodeInternal
	}
}

// Retryable reports whether a failure class may be retried without user changes.
func Retryable(code Code) bool {
	switch code {
	case CodeUploadFailure, CodePersistenceFailure, CodeLookupFailure:
		return true
	default:
		return false
	}
}

// UserFacing is the error shape surfaced to interactive callers.
type UserFacing struct {
	Code        Code   `json:"code"`
	UserMessage string `json:"userMessage"`
	Retryable   bool   `json:"retryable"`
}

// Describe translates a wrapped error into its user-facing shape.
func Describe(err error) UserFacing {
	if err == nil {
		return UserFacing{}
	}
	code := Classify(err)
	return UserFacing{
		Code:        code,
		UserMessage: userMessage(code, err),
		Retryable:   Retryable(code),
	}
}

func userMessage(code Code, err error) string {
	switch code {
	case CodeValidation:
		return "The observation is missing required details. Fix the highlighted fields and resubmit."
	case CodeStaleCandidate:
		return "The matched person record changed or was removed. The observation was saved as a new person instead."
	case CodeUploadFailure:
		return "The photo could not be uploaded. The observation was saved without it."
	case CodePersistenceFailure:
		return "Saving failed. Your entries were kept; retry when the connection recovers."
	case CodeLookupFailure:
		return "Searching the roster failed. The observation can still be saved as a new person."
	default:
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			return msg
		}
		return "Unexpected internal error."
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
