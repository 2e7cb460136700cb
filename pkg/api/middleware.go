package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// apiKeyMiddleware guards the inspection endpoints with the X-API-Key
// header. Rejections are logged and counted; cache files can hold
// anything the proxied backends served, so who read them matters.
func apiKeyMiddleware(expectedKey string, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" || apiKey != expectedKey {
				if metrics != nil {
					metrics.RecordAuth(false)
				}
				logrus.WithFields(logrus.Fields{
					"remote": r.RemoteAddr,
					"path":   r.URL.Path,
				}).Warn("rejected request with missing or invalid API key")
				sendError(w, "Missing or invalid X-API-Key header", http.StatusUnauthorized)
				return
			}
			if metrics != nil {
				metrics.RecordAuth(true)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sendSuccess wraps data in the standard response envelope.
func sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	response := APIResponse{
		Success: true,
		Data:    data,
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// sendError wraps an error message in the standard response envelope.
func sendError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: false,
		Error:   message,
	}
	_ = json.NewEncoder(w).Encode(response)
}
