// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the JSON response envelope shared by the API
// handlers.
package httputil

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Error describes a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta carries response metadata.
type Meta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Error codes.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeUnsupported   = "UNSUPPORTED_FORMAT"
	CodeTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeConversion    = "CONVERSION_FAILED"
	CodeInternalError = "INTERNAL_ERROR"
)

func meta(total int) *Meta {
	return &Meta{Total: total, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Respond writes data in a success envelope.
func Respond(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{Success: true, Data: data, Meta: meta(0)})
}

// RespondList writes a list in a success envelope with its length in Meta.
func RespondList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	write(w, http.StatusOK, Response{Success: true, Data: items, Meta: meta(len(items))})
}

// RespondError writes an error envelope.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Response{Error: &Error{Code: code, Message: message}, Meta: meta(0)})
}
