package common

import (
	"encoding/json"
	"net/http"

	pkgerrors "nodular/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondDomainError maps a domain error onto the response envelope,
// falling back to 500 for unrecognized errors
func RespondDomainError(w http.ResponseWriter, err error) {
	if de := pkgerrors.GetDomainError(err); de != nil {
		response := APIResponse{
			Success: false,
			Error: &ErrorInfo{
				Code:    de.Code,
				Message: de.Message,
				Details: de.Details,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(de.StatusCode)
		json.NewEncoder(w).Encode(response)
		return
	}
	RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}
