package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// AckResponse is the body returned by the webhook endpoint: {"ok":true} on
// success, {"ok":false,"error":"<reason>"} on any rejection.
type AckResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// WriteAck writes the webhook success acknowledgement.
func WriteAck(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, AckResponse{OK: true})
}

// WriteReject writes a webhook rejection with its reason code.
func WriteReject(w http.ResponseWriter, status int, reason string) {
	WriteJSON(w, status, AckResponse{OK: false, Error: reason})
}

// WriteError writes a generic JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
