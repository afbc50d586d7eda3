package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	MaxBodySize int64 // Maximum request body size in bytes
	Logger      *zap.Logger
}

// RequestValidation middleware validates request body size and JSON format
func RequestValidation(config ValidationConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// GET requests and health checks carry no body worth validating
			if r.Method == "GET" || strings.HasPrefix(r.URL.Path, "/health") {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > config.MaxBodySize {
				config.Logger.Warn("Request body too large",
					zap.Int64("content_length", r.ContentLength),
					zap.Int64("max_size", config.MaxBodySize),
					zap.String("path", r.URL.Path))

				http.Error(w, fmt.Sprintf("Request body too large. Maximum size: %d bytes", config.MaxBodySize),
					http.StatusRequestEntityTooLarge)
				return
			}

			if r.Method == "POST" || r.Method == "PUT" {
				body, err := io.ReadAll(io.LimitReader(r.Body, config.MaxBodySize))
				if err != nil {
					config.Logger.Error("Failed to read request body", zap.Error(err))
					http.Error(w, "Failed to read request body", http.StatusBadRequest)
					return
				}
				r.Body.Close()

				if len(body) > 0 {
					var jsonData interface{}
					if err := json.Unmarshal(body, &jsonData); err != nil {
						config.Logger.Warn("Invalid JSON format",
							zap.Error(err),
							zap.String("path", r.URL.Path))

						http.Error(w, "Invalid JSON format", http.StatusBadRequest)
						return
					}
				}

				// Restore body for downstream handlers
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			next.ServeHTTP(w, r)
		})
	}
}
