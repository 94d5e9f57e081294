package dto

// ErrorResponse is the JSON envelope every failed HTTP call returns,
// generalizing the teacher's {error, message} shape with the field-path
// key ValidationError needs (§7).
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
