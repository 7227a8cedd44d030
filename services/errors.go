package services

import "errors"

// Common service-level errors
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidAction = errors.New("invalid action")
)
