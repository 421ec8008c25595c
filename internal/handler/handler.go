// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSON decodes a body holding exactly one JSON value into dst.
func decodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errTrailingData
		}
		return fmt.Errorf("%w: %v", errTrailingData, err)
	}
	return nil
}

// NotFound writes a plain-text 404. It also answers method mismatches so
// unmatched method and path combinations look the same to callers.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusNotFound, "Not found")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeText writes a plain-text response with the given status code.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
