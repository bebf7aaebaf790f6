package helpers

import (
	"encoding/json"
	"net/http"
)

// WriteJSONResponse writes a JSON body with the given status code
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// WriteJSONError writes a JSON error body with the given status code
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	WriteJSONResponse(w, status, map[string]string{"error": message})
}
