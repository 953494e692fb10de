package dto

import "time"

// MessageInternalError is the only message a 500 response ever carries
const MessageInternalError = "Une erreur interne est survenue"

// Response represents a standard API response for write endpoints.
// Read endpoints return the raw document or array instead.
type Response struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Details   any       `json:"details,omitempty"`
}

// ValidationDetail describes one invalid request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UploadResponse is returned by the upload endpoint
type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// IDRequest carries the id of a single order or message to mutate
type IDRequest struct {
	ID string `json:"id" binding:"required"`
}

// CountResponse carries a document count
type CountResponse struct {
	Count int64 `json:"count"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return NewErrorResponseWithRequestID(code, message, "")
}

// NewErrorResponseWithRequestID creates an error response tagged with the request id.
// The top-level message mirrors error.message for clients that only read {message}.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Message: message,
		Error: &ErrorInfo{
			Code:      NormalizeErrorCode(code),
			Message:   message,
			RequestID: requestID,
			Timestamp: time.Now(),
		},
	}
}

// NewValidationErrorResponse creates a 400 response listing invalid fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	if len(details) > 0 {
		resp.Error.Details = details
	}
	return resp
}

// WithDetails attaches details to an error response
func (r Response) WithDetails(details any) Response {
	if r.Error != nil {
		r.Error.Details = details
	}
	return r
}
