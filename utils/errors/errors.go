package errors

import (
	"fmt"
	"net/http"
)

// APIError is the error type crossing handler boundaries: a stable machine
// code, a user-facing message and the HTTP status it maps to.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

var (
	ErrInvalidInput = NewAPIError("INVALID_INPUT", "Invalid request data", http.StatusBadRequest)
	ErrUnauthorized = NewAPIError("UNAUTHORIZED", "Authentication required", http.StatusUnauthorized)
	ErrInternal     = NewAPIError("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)

	// Store taxonomy. These are the only errors the POI store surfaces;
	// persistence failures never cross its boundary.
	ErrDuplicateID   = NewAPIError("DUPLICATE_ID", "A point of interest with this id already exists", http.StatusConflict)
	ErrPOINotFound   = NewAPIError("POI_NOT_FOUND", "Point of interest not found", http.StatusNotFound)
	ErrInvalidPOI    = NewAPIError("INVALID_POI_DATA", "Point of interest data is malformed", http.StatusBadRequest)
	ErrInvalidImport = NewAPIError("INVALID_IMPORT", "Import payload is not a valid list of points of interest", http.StatusBadRequest)

	// View layer.
	ErrUnknownAction = NewAPIError("UNKNOWN_ACTION", "Unknown list action", http.StatusBadRequest)
	ErrMarkerMissing = NewAPIError("MARKER_NOT_FOUND", "No marker is rendered for this id", http.StatusNotFound)

	// External geocoding/directions boundary.
	ErrGeoService    = NewAPIError("GEO_SERVICE_ERROR", "Geocoding service request failed", http.StatusBadGateway)
	ErrNoResults     = NewAPIError("NO_RESULTS", "No results found for this query", http.StatusNotFound)
	ErrRouteNotFound = NewAPIError("ROUTE_NOT_FOUND", "No route found between the given points", http.StatusNotFound)
)

func Wrap(err error, code, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(code, message, status, err.Error())
}
