// Package envelope writes the {success, data|error} JSON responses every
// endpoint returns.
package envelope

import (
	"encoding/json"
	"net/http"
)

// Failure kinds.
const (
	KindUnauthenticated = "unauthenticated"
	KindUnauthorized    = "unauthorized"
	KindValidation      = "validation_failed"
	KindNotFound        = "not_found"
	KindDataStore       = "datastore_error"
)

// Response is the wire shape of every API response.
type Response struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   *Failure `json:"error,omitempty"`
}

// Failure describes why a request failed. Kind is machine-readable.
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{Success: true, Data: data})
}

// OKMessage writes a success envelope that also carries a user-facing message.
func OKMessage(w http.ResponseWriter, status int, data any, msg string) {
	write(w, status, Response{Success: true, Data: data, Message: msg})
}

// Fail writes a failure envelope.
func Fail(w http.ResponseWriter, status int, kind, msg string) {
	write(w, status, Response{Error: &Failure{Kind: kind, Message: msg}})
}

func write(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Decode reads a JSON request body into dst, rejecting unknown fields.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
