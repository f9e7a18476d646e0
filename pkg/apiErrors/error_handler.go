package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned to API clients.
const (
	// Validation errors (VAL_*)
	ErrInvalidRequest      = "VAL_001" // Malformed request
	ErrMissingRequiredData = "VAL_002" // Required parameter or file absent
	ErrInvalidFormat       = "VAL_003" // Unreadable workbook or bad parameter format
	ErrMissingColumns      = "VAL_004" // Dataset lacks required columns

	// Resource errors (RES_*)
	ErrResultNotFound = "RES_001" // No analysis result available yet
	ErrUnknownTable   = "RES_002" // Export of an unknown result table

	// Server errors (SRV_*)
	ErrInternalServer = "SRV_001" // Internal server error
	ErrAnalysisFailed = "SRV_002" // Analysis run aborted
)

var httpStatusMap = map[string]int{
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrMissingColumns:      http.StatusBadRequest,
	ErrResultNotFound:      http.StatusNotFound,
	ErrUnknownTable:        http.StatusNotFound,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrAnalysisFailed:      http.StatusInternalServerError,
}

// APIError is the standardized error envelope of the API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standardized error to the HTTP response.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps an existing Go error into an API error.
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
