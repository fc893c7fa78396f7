// Package response renders the JSON envelope shared by every HTTP endpoint:
// {"success": true, "data": ..., "meta": ...} or
// {"success": false, "error": {"kind", "message", "details"}, "meta": ...}.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/hiretrack/pkg/errorbank"
)

// Envelope is the body written by Build.
type Envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorBody     `json:"error,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// ErrorBody describes a failed request. Details carry per-field messages
// for rejected order forms.
type ErrorBody struct {
	Kind    errorbank.Kind `json:"kind"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Builder accumulates a response for one request.
type Builder struct {
	ctx    echo.Context
	status int
	data   any
	err    error
	meta   map[string]any
}

func New(ctx echo.Context) *Builder {
	return &Builder{ctx: ctx}
}

// WithStatus sets the success status; errors take their status from the
// error kind unless a 4xx/5xx status was set here.
func (b *Builder) WithStatus(status int) *Builder {
	if status > 0 {
		b.status = status
	}
	return b
}

func (b *Builder) WithData(data any) *Builder {
	b.data = data
	return b
}

func (b *Builder) WithError(err error) *Builder {
	b.err = err
	return b
}

func (b *Builder) WithMeta(key string, value any) *Builder {
	if key == "" {
		return b
	}
	if b.meta == nil {
		b.meta = map[string]any{}
	}
	b.meta[key] = value
	return b
}

// WithCount sets meta.count for list payloads.
func (b *Builder) WithCount(n int) *Builder {
	return b.WithMeta("count", n)
}

// NoContent replies 204 with no body, or the error envelope if one was set.
func (b *Builder) NoContent() error {
	if b.err != nil {
		return b.Build()
	}
	return b.ctx.NoContent(http.StatusNoContent)
}

// Build writes the envelope.
func (b *Builder) Build() error {
	if b.err == nil {
		status := b.status
		if status == 0 {
			status = http.StatusOK
		}
		return b.ctx.JSON(status, Envelope{Success: true, Data: b.data, Meta: b.meta})
	}

	appErr := errorbank.From(b.err)
	status := b.status
	if status < http.StatusBadRequest {
		status = appErr.StatusCode()
	}
	return b.ctx.JSON(status, Envelope{
		Meta: b.meta,
		Error: &ErrorBody{
			Kind:    appErr.Kind(),
			Message: appErr.Message(),
			Details: appErr.Details(),
		},
	})
}
