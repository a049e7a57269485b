package errors

import "errors"

var (
	ErrInvalidPreferenceInput = errors.New("invalid preference input")
	ErrNotificationNotFound   = errors.New("notification not found")
	ErrConflict               = errors.New("notification conflict")
)
