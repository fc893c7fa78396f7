// Package errorbank defines the application error shared by the HTTP, gRPC
// and CLI surfaces.
package errorbank

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind enumerates supported application error categories.
type Kind string

const (
	KindBadRequest          Kind = "bad_request"
	KindConflict            Kind = "conflict"
	KindNotFound            Kind = "not_found"
	KindUnprocessableEntity Kind = "unprocessable_entity"
	KindInternal            Kind = "internal"
)

type kindCodes struct {
	http int
	grpc codes.Code
}

var kinds = map[Kind]kindCodes{
	KindBadRequest:          {http.StatusBadRequest, codes.InvalidArgument},
	KindConflict:            {http.StatusConflict, codes.AlreadyExists},
	KindNotFound:            {http.StatusNotFound, codes.NotFound},
	KindUnprocessableEntity: {http.StatusUnprocessableEntity, codes.FailedPrecondition},
	KindInternal:            {http.StatusInternalServerError, codes.Internal},
}

func codesFor(k Kind) kindCodes {
	if c, ok := kinds[k]; ok {
		return c
	}
	return kinds[KindInternal]
}

// AppError is an error with a kind, a client safe message and optional
// details. For unprocessable input the details map field names to messages.
type AppError struct {
	kind    Kind
	message string
	details map[string]any
	cause   error
}

// Option configures an AppError.
type Option func(*AppError)

// WithCause records the underlying error. It shows in Error() but is never
// rendered to clients.
func WithCause(err error) Option {
	return func(e *AppError) { e.cause = err }
}

// WithDetail sets one detail value.
func WithDetail(key string, value any) Option {
	return WithDetails(map[string]any{key: value})
}

// WithDetails merges details into the error.
func WithDetails(details map[string]any) Option {
	return func(e *AppError) {
		if len(details) == 0 {
			return
		}
		if e.details == nil {
			e.details = make(map[string]any, len(details))
		}
		for k, v := range details {
			e.details[k] = v
		}
	}
}

// New builds an AppError; an empty message falls back to the kind.
func New(kind Kind, message string, opts ...Option) *AppError {
	if message == "" {
		message = string(kind)
	}
	e := &AppError{kind: kind, message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func BadRequest(message string, opts ...Option) *AppError {
	return New(KindBadRequest, message, opts...)
}

func Conflict(message string, opts ...Option) *AppError {
	return New(KindConflict, message, opts...)
}

func NotFound(message string, opts ...Option) *AppError {
	return New(KindNotFound, message, opts...)
}

// Unprocessable reports well-formed input that failed validation.
func Unprocessable(message string, opts ...Option) *AppError {
	return New(KindUnprocessableEntity, message, opts...)
}

func Internal(message string, opts ...Option) *AppError {
	return New(KindInternal, message, opts...)
}

func (e *AppError) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause != nil:
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	default:
		return e.message
	}
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Kind returns the category; a nil error reads as internal.
func (e *AppError) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

func (e *AppError) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *AppError) Details() map[string]any {
	if e == nil {
		return nil
	}
	return e.details
}

// StatusCode is the HTTP status for the kind.
func (e *AppError) StatusCode() int {
	return codesFor(e.Kind()).http
}

// GRPCCode is the gRPC code for the kind.
func (e *AppError) GRPCCode() codes.Code {
	return codesFor(e.Kind()).grpc
}

// GRPCStatus lets status.FromError convert an AppError directly.
func (e *AppError) GRPCStatus() *status.Status {
	return status.New(e.GRPCCode(), e.Message())
}

// IsKind reports whether err wraps an AppError of kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind() == kind
}

// From finds the AppError in err's chain, or wraps err as internal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal error", WithCause(err))
}
