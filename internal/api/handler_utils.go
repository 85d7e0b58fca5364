// File: backend/internal/api/handler_utils.go
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
)

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON sends a JSON response with the given status code and payload.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("API Error: Failed to marshal JSON response: %v", err)
		// Fallback error response if marshalling the payload fails
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		jsonError := fmt.Sprintf("{\"error\": \"Failed to marshal JSON response: %v\"}", err)
		w.Write([]byte(jsonError))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil { // Avoid writing null body if payload is nil (e.g. for 204 No Content)
		w.Write(response)
	}
}

// queryIntParam reads a positive integer query parameter, returning def when
// the parameter is absent and an error when it is present but not a
// positive integer.
func queryIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("parameter '%s' must be a positive integer", name)
	}
	return v, nil
}
