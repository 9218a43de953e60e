package handler

import (
	"encoding/json"
	"net/http"
)

// writeError reports a failure as a JSON {error} body.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
