package models

import "net/http"

type GenericResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Status  int    `json:"status"`
}

// ErrorResponse wraps a failure in the envelope. Status is mandatory.
func ErrorResponse(status int, message string, data any) GenericResponse {
	return GenericResponse{
		Error:   true,
		Message: message,
		Data:    data,
		Status:  status,
	}
}

// ServiceUnavailable is the body returned while no model is being served.
func ServiceUnavailable(message string) GenericResponse {
	return ErrorResponse(http.StatusServiceUnavailable, message, nil)
}
