package kit

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders the uniform error envelope. The category is the
// status-line style name ("Bad Request", "Not Found", ...), the message
// the human-readable detail.
func WriteError(w http.ResponseWriter, status int, category, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   category,
		Message: message,
	})
}
