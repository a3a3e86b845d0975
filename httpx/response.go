package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Decode reads a JSON request body into dst, rejecting unknown fields and
// oversized payloads.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Trailing content after the JSON document is a malformed request.
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func NotFound(w http.ResponseWriter, msg string) {
	JSONError(w, http.StatusNotFound, msg, nil)
}

func BadRequest(w http.ResponseWriter, msg string, details any) {
	JSONError(w, http.StatusBadRequest, msg, details)
}

func Conflict(w http.ResponseWriter, msg string) {
	JSONError(w, http.StatusConflict, msg, nil)
}

func Forbidden(w http.ResponseWriter) {
	JSONError(w, http.StatusForbidden, "forbidden", nil)
}

func InternalError(w http.ResponseWriter) {
	JSONError(w, http.StatusInternalServerError, "internal_error", nil)
}
