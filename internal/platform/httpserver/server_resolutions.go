package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	resolutionerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
	resolutionhttp "boardgov/contexts/board-governance/resolution-service/transport/http"
)

func (s *Server) handleCreateResolution(w http.ResponseWriter, r *http.Request) {
	proposerID := requestUserID(r)
	if proposerID == "" {
		writeResolutionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req resolutionhttp.CreateResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.CreateResolutionHandler(
		r.Context(),
		proposerID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSubmitForReview(w http.ResponseWriter, r *http.Request) {
	actorID := requestUserID(r)
	if actorID == "" {
		writeResolutionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.resolutions.Handler.SubmitForReviewHandler(
		r.Context(),
		r.PathValue("resolution_id"),
		actorID,
		r.Header.Get("Idempotency-Key"),
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOpenVoting(w http.ResponseWriter, r *http.Request) {
	actorID := requestUserID(r)
	if actorID == "" {
		writeResolutionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req resolutionhttp.OpenVotingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.OpenVotingHandler(
		r.Context(),
		r.PathValue("resolution_id"),
		actorID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawResolution(w http.ResponseWriter, r *http.Request) {
	actorID := requestUserID(r)
	if actorID == "" {
		writeResolutionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req resolutionhttp.WithdrawResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.WithdrawResolutionHandler(
		r.Context(),
		r.PathValue("resolution_id"),
		actorID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	voterID := requestUserID(r)
	if voterID == "" {
		writeResolutionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req resolutionhttp.CastBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.CastBallotHandler(
		r.Context(),
		r.PathValue("resolution_id"),
		voterID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetResolution(w http.ResponseWriter, r *http.Request) {
	resp, err := s.resolutions.Handler.GetResolutionHandler(r.Context(), r.PathValue("resolution_id"))
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVotingReport(w http.ResponseWriter, r *http.Request) {
	resp, err := s.resolutions.Handler.VotingReportHandler(r.Context(), r.PathValue("resolution_id"))
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBallotEligibility(w http.ResponseWriter, r *http.Request) {
	voterID := requestUserID(r)
	if voterID == "" {
		writeResolutionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.resolutions.Handler.BallotEligibilityHandler(
		r.Context(),
		r.PathValue("resolution_id"),
		voterID,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListBallots(w http.ResponseWriter, r *http.Request) {
	resp, err := s.resolutions.Handler.ListBallotsHandler(r.Context(), r.PathValue("resolution_id"))
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeResolutionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, resolutionerrors.ErrResolutionNotFound):
		writeResolutionError(w, http.StatusNotFound, "resolution_not_found", err.Error())
	case errors.Is(err, resolutionerrors.ErrBallotNotFound):
		writeResolutionError(w, http.StatusNotFound, "ballot_not_found", err.Error())
	case errors.Is(err, resolutionerrors.ErrInvalidResolutionInput),
		errors.Is(err, resolutionerrors.ErrInvalidBallotInput),
		errors.Is(err, resolutionerrors.ErrInvalidTallyContext):
		writeResolutionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, resolutionerrors.ErrIdempotencyKeyRequired):
		writeResolutionError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, resolutionerrors.ErrInvalidTransition):
		writeResolutionError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, resolutionerrors.ErrVotingNotOpen):
		writeResolutionError(w, http.StatusConflict, "voting_not_open", err.Error())
	case errors.Is(err, resolutionerrors.ErrVotingClosed):
		writeResolutionError(w, http.StatusConflict, "voting_closed", err.Error())
	case errors.Is(err, resolutionerrors.ErrIdempotencyConflict),
		errors.Is(err, resolutionerrors.ErrConflict):
		writeResolutionError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeResolutionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeResolutionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, resolutionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
