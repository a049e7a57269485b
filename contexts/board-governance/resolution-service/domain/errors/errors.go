package errors

import "errors"

var (
	ErrInvalidResolutionInput = errors.New("invalid resolution input")
	ErrInvalidBallotInput     = errors.New("invalid ballot input")
	ErrInvalidTallyContext    = errors.New("invalid tally context")
	ErrResolutionNotFound     = errors.New("resolution not found")
	ErrBallotNotFound         = errors.New("ballot not found")
	ErrInvalidTransition      = errors.New("invalid resolution status transition")
	ErrVotingClosed           = errors.New("voting is closed")
	ErrVotingNotOpen          = errors.New("resolution is not open for voting")
	ErrConflict               = errors.New("resolution conflict")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
)
