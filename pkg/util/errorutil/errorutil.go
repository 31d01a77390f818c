package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Kind classifies application errors.
type Kind string

const (
	KindBadRequest   Kind = "BAD_REQUEST"
	KindValidation   Kind = "VALIDATION_FAILED"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL_ERROR"
)

type catalogEntry struct {
	Message    string
	HTTPStatus int
}

// catalog maps every error kind to its default message and HTTP status.
// Built once; constructors read from it and never mutate it.
var catalog = map[Kind]catalogEntry{
	KindBadRequest:   {Message: "bad request", HTTPStatus: http.StatusBadRequest},
	KindValidation:   {Message: "validation failed", HTTPStatus: http.StatusUnprocessableEntity},
	KindNotFound:     {Message: "resource not found", HTTPStatus: http.StatusNotFound},
	KindUnauthorized: {Message: "unauthorized", HTTPStatus: http.StatusUnauthorized},
	KindForbidden:    {Message: "forbidden", HTTPStatus: http.StatusForbidden},
	KindConflict:     {Message: "conflict", HTTPStatus: http.StatusConflict},
	KindInternal:     {Message: "internal server error", HTTPStatus: http.StatusInternalServerError},
}

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

// NewDomainError constructs a DomainError from the catalog entry for kind,
// optionally overriding the catalog message.
func NewDomainError(kind Kind, message string, details map[string]any) *DomainError {
	entry := catalog[kind]
	if message == "" {
		message = entry.Message
	}
	return &DomainError{
		Code:       string(kind),
		Message:    message,
		HTTPStatus: entry.HTTPStatus,
		Details:    details,
	}
}

func NewBadRequest(message string) error {
	return NewDomainError(KindBadRequest, message, nil)
}

// NewValidationError carries the per-field violation map in Details.
func NewValidationError(fields map[string]any) error {
	return NewDomainError(KindValidation, "", fields)
}

func NewNotFound(resource string) error {
	return NewDomainError(KindNotFound, fmt.Sprintf("%s not found", resource), nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(KindUnauthorized, message, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(KindForbidden, message, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(KindConflict, message, details)
}

func NewInternalError(err error) error {
	e := NewDomainError(KindInternal, "", nil)
	e.Err = err
	return e
}

// ToDomainError converts generic errors to DomainError. Row-absence errors
// from the store become NOT_FOUND; anything else is an internal error whose
// cause is kept for logging but never serialized to callers.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(KindNotFound, "", nil)
	}
	e := NewDomainError(KindInternal, "", nil)
	e.Err = err
	return e
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
