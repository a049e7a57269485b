package errors

import "errors"

var (
	ErrInvalidMeetingInput    = errors.New("invalid meeting input")
	ErrInvalidRSVPInput       = errors.New("invalid rsvp input")
	ErrInvalidMinutesInput    = errors.New("invalid minutes input")
	ErrMeetingNotFound        = errors.New("meeting not found")
	ErrMinutesNotFound        = errors.New("minutes not found")
	ErrMeetingNotScheduled    = errors.New("meeting is not in scheduled state")
	ErrInvalidTransition      = errors.New("invalid minutes status transition")
	ErrConflict               = errors.New("meeting conflict")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
)
