package dto

import "errors"

// Validation errors
var (
	ErrEmptyQuery         = errors.New("query cannot be empty")
	ErrQueryTooLong       = errors.New("query exceeds maximum length (1024)")
	ErrInvalidSort        = errors.New("sort must be comprehensive, relevance, or downloads")
	ErrEmptyID            = errors.New("id cannot be empty")
	ErrIDTooLong          = errors.New("id exceeds maximum length (256)")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrNameTooLong        = errors.New("name exceeds maximum length (1024)")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length (64KB)")
)

// MaxFieldLengths defines maximum lengths for fields to prevent abuse
const (
	MaxQueryLength       = 1024
	MaxIDLength          = 256
	MaxNameLength        = 1024
	MaxDescriptionLength = 64 * 1024
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
