package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	notificationerrors "boardgov/contexts/board-governance/notification-service/domain/errors"
	notificationhttp "boardgov/contexts/board-governance/notification-service/transport/http"
)

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	resp, err := s.notifications.Handler.GetPreferenceHandler(r.Context(), r.PathValue("member_id"))
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdatePreference(w http.ResponseWriter, r *http.Request) {
	var req notificationhttp.UpdatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNotificationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.notifications.Handler.UpdatePreferenceHandler(
		r.Context(),
		r.PathValue("member_id"),
		req,
	)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMemberNotifications(w http.ResponseWriter, r *http.Request) {
	resp, err := s.notifications.Handler.MemberNotificationsHandler(r.Context(), r.PathValue("member_id"))
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeNotificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notificationerrors.ErrInvalidPreferenceInput):
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, notificationerrors.ErrNotificationNotFound):
		writeNotificationError(w, http.StatusNotFound, "notification_not_found", err.Error())
	case errors.Is(err, notificationerrors.ErrConflict):
		writeNotificationError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeNotificationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeNotificationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, notificationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
