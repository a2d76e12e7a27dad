// Package response writes the JSON envelopes every endpoint answers with.
package response

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

type successBody struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	// Data is always emitted; a fetch that finds nothing answers "data": null.
	Data interface{} `json:"data"`
}

type failBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 success envelope. message may be empty.
func Success(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusOK, successBody{Status: StatusSuccess, Message: message, Data: data})
}

// Fail sends a fail envelope carrying err's text.
func Fail(w http.ResponseWriter, status int, message string, err error) {
	body := failBody{Status: StatusFail, Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	JSON(w, status, body)
}

// Text sends a plain-text body.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body)) //nolint:errcheck
}

// InternalError sends a 500 fail envelope without leaking details.
func InternalError(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, "Internal server error", nil)
}

// TooManyRequests sends a 429 fail envelope.
func TooManyRequests(w http.ResponseWriter) {
	Fail(w, http.StatusTooManyRequests, "Too many requests", nil)
}
