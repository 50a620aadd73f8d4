package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody matches the web package's ErrorResponse so API clients see one
// error shape whether a request failed in middleware or in a handler.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func writeJSONError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message, Message: message, Code: code})
}
