package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	meetingerrors "boardgov/contexts/board-governance/meeting-service/domain/errors"
	meetinghttp "boardgov/contexts/board-governance/meeting-service/transport/http"
)

func (s *Server) handleScheduleMeeting(w http.ResponseWriter, r *http.Request) {
	creatorID := requestUserID(r)
	if creatorID == "" {
		writeMeetingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req meetinghttp.ScheduleMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMeetingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.meetings.Handler.ScheduleMeetingHandler(
		r.Context(),
		creatorID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeMeetingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCancelMeeting(w http.ResponseWriter, r *http.Request) {
	actorID := requestUserID(r)
	if actorID == "" {
		writeMeetingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req meetinghttp.CancelMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMeetingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.meetings.Handler.CancelMeetingHandler(
		r.Context(),
		r.PathValue("meeting_id"),
		actorID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeMeetingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordRSVP(w http.ResponseWriter, r *http.Request) {
	memberID := requestUserID(r)
	if memberID == "" {
		writeMeetingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req meetinghttp.RecordRSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMeetingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.meetings.Handler.RecordRSVPHandler(
		r.Context(),
		r.PathValue("meeting_id"),
		memberID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeMeetingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitMinutes(w http.ResponseWriter, r *http.Request) {
	actorID := requestUserID(r)
	if actorID == "" {
		writeMeetingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req meetinghttp.SubmitMinutesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMeetingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.meetings.Handler.SubmitMinutesHandler(
		r.Context(),
		r.PathValue("meeting_id"),
		actorID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeMeetingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveMinutes(w http.ResponseWriter, r *http.Request) {
	actorID := requestUserID(r)
	if actorID == "" {
		writeMeetingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.meetings.Handler.ApproveMinutesHandler(
		r.Context(),
		r.PathValue("minutes_id"),
		actorID,
		r.Header.Get("Idempotency-Key"),
	)
	if err != nil {
		writeMeetingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpcomingMeetings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.meetings.Handler.UpcomingMeetingsHandler(r.Context())
	if err != nil {
		writeMeetingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMeetingDetail(w http.ResponseWriter, r *http.Request) {
	resp, err := s.meetings.Handler.MeetingDetailHandler(r.Context(), r.PathValue("meeting_id"))
	if err != nil {
		writeMeetingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMeetingMinutes(w http.ResponseWriter, r *http.Request) {
	resp, err := s.meetings.Handler.MeetingMinutesHandler(r.Context(), r.PathValue("meeting_id"))
	if err != nil {
		writeMeetingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeMeetingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, meetingerrors.ErrMeetingNotFound):
		writeMeetingError(w, http.StatusNotFound, "meeting_not_found", err.Error())
	case errors.Is(err, meetingerrors.ErrMinutesNotFound):
		writeMeetingError(w, http.StatusNotFound, "minutes_not_found", err.Error())
	case errors.Is(err, meetingerrors.ErrInvalidMeetingInput),
		errors.Is(err, meetingerrors.ErrInvalidRSVPInput),
		errors.Is(err, meetingerrors.ErrInvalidMinutesInput):
		writeMeetingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, meetingerrors.ErrIdempotencyKeyRequired):
		writeMeetingError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, meetingerrors.ErrMeetingNotScheduled):
		writeMeetingError(w, http.StatusConflict, "meeting_not_scheduled", err.Error())
	case errors.Is(err, meetingerrors.ErrInvalidTransition):
		writeMeetingError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, meetingerrors.ErrIdempotencyConflict),
		errors.Is(err, meetingerrors.ErrConflict):
		writeMeetingError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeMeetingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeMeetingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, meetinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
