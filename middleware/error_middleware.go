package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"poi-map-server/utils/errors"
)

// RecoveryMiddleware turns panics into a standardized 500 response so no
// request can take the process down.
func RecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					zap.L().Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
					WriteError(w, errors.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WriteError renders an APIError as JSON with its mapped HTTP status.
func WriteError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		apiErr = errors.Wrap(err, "UNKNOWN_ERROR", "Unexpected error", errors.ErrInternal.Status)
	}
	if apiErr.Status >= 500 {
		zap.L().Error("server error", zap.String("code", apiErr.Code), zap.String("details", apiErr.Details))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(apiErr)
}
