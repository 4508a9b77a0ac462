package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error codes recognized by handlers when rendering chat replies.
const (
	CodeMalformedMessage      = "MALFORMED_MESSAGE"
	CodeMalformedDuration     = "MALFORMED_DURATION"
	CodeUserNotRegistered     = "USER_NOT_REGISTERED"
	CodeCategoryNotFound      = "CATEGORY_NOT_FOUND"
	CodeAlreadyRegistered     = "ALREADY_REGISTERED"
	CodeCategoryAlreadyExists = "CATEGORY_ALREADY_EXISTS"
	CodePersistenceError      = "PERSISTENCE_ERROR"
	CodeNotFound              = "NOT_FOUND"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeValidationFailed      = "VALIDATION_FAILED"
)

// Postgres error codes surfaced by pgconn.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewMalformedMessage(details map[string]any) error {
	return NewDomainError(CodeMalformedMessage, "message does not match the report template", http.StatusBadRequest, details)
}

func NewMalformedDuration(expr string) error {
	return NewDomainError(CodeMalformedDuration, "working-hour expression is malformed", http.StatusBadRequest, map[string]any{"expression": expr})
}

func NewUserNotRegistered(slackUserID string) error {
	return NewDomainError(CodeUserNotRegistered, "user is not registered", http.StatusNotFound, map[string]any{"slack_user_id": slackUserID})
}

func NewCategoryNotFound(name string) error {
	return NewDomainError(CodeCategoryNotFound, fmt.Sprintf("RA job %q is not registered", name), http.StatusNotFound, map[string]any{"category": name})
}

func NewAlreadyRegistered(name string) error {
	return NewDomainError(CodeAlreadyRegistered, fmt.Sprintf("user %q is already registered", name), http.StatusConflict, map[string]any{"name": name})
}

func NewCategoryAlreadyExists(name string) error {
	return NewDomainError(CodeCategoryAlreadyExists, fmt.Sprintf("RA job %q is already registered", name), http.StatusConflict, map[string]any{"category": name})
}

func NewPersistenceError(err error) error {
	return &DomainError{
		Code:       CodePersistenceError,
		Message:    "record store operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsCheckViolation reports whether err is a Postgres check-constraint violation,
// such as the end-after-start integrity check on timecards.
func IsCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewPersistenceError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       CodePersistenceError,
		Message:    "record store operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
