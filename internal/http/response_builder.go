// Package http provides the JSON API over the ledger.
//
// This file implements the Builder Pattern for JSON responses and the single
// place where domain errors become HTTP status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gastos/internal/core"
	"gastos/internal/log"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	payload    any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value to encode as the body.
func (b *JSONResponseBuilder) JSON(v any) *JSONResponseBuilder {
	b.payload = v
	return b
}

// Write sends the built response. A nil payload writes no body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	body, err := json.Marshal(b.payload)
	if err != nil {
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(body, '\n'))
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).JSON(ErrorBody{Error: message})
}

// BadRequestError creates a 400 response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// NotFoundError creates a 404 response.
func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// InternalServerError creates a 500 response.
func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// TooManyRequestsError creates the 429 sent by the rate limiter.
func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

// ValidationError creates a 422 listing every invalid field.
func ValidationError(verr *core.ValidationError) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(http.StatusUnprocessableEntity).
		JSON(ErrorBody{Error: core.ErrValidation.Error(), Fields: verr.FieldErrors()})
}

// FromError maps a service error to its response: invalid month 400, unknown
// id 404, oversized body 413, invalid entry 422, anything else 500.
func FromError(err error) *JSONResponseBuilder {
	if verr, ok := core.AsValidation(err); ok {
		return ValidationError(verr)
	}
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, core.ErrInvalidFormat):
		return BadRequestError(err.Error())
	case errors.Is(err, ErrBodyTooLarge):
		return ErrorResponse(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, core.ErrNotFound):
		return NotFoundError(err.Error())
	default:
		return InternalServerError("internal error")
	}
}

// writeError logs unexpected errors and writes the mapped response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := FromError(err)
	if resp.statusCode >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err)
	}
	resp.Write(w)
}
