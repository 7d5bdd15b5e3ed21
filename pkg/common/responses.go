package common

import "net/http"

type SuccessResponse struct {
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}, message string) SuccessResponse {
	return SuccessResponse{
		Status:  http.StatusOK,
		Success: true,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(message string, data interface{}, status int) ErrorResponse {
	return ErrorResponse{
		Status:  status,
		Success: false,
		Message: message,
		Data:    data,
	}
}

// NewAppErrorResponse renders an AppError with its code and details so
// clients can branch on the code and show precise remediation.
func NewAppErrorResponse(err *AppError) ErrorResponse {
	var data interface{}
	if len(err.Details) > 0 {
		data = err.Details
	}
	return ErrorResponse{
		Status:  err.HTTPStatus(),
		Success: false,
		Message: err.Message,
		Code:    err.Code,
		Data:    data,
	}
}
