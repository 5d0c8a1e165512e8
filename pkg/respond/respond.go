package respond

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// JSON writes data with the given status. A nil data writes headers only.
func JSON(w http.ResponseWriter, r *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, errorBody{Error: message})
}

// FieldError reports a message tied to one input field, for inline display.
func FieldError(w http.ResponseWriter, r *http.Request, code int, field, message string) {
	JSON(w, r, code, errorBody{Error: message, Field: field})
}

// Accepted acknowledges an intent that completes in the background.
func Accepted(w http.ResponseWriter, r *http.Request, jobID string) {
	JSON(w, r, http.StatusAccepted, map[string]string{"job_id": jobID})
}

func NoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
