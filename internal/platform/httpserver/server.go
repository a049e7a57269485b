package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	meetingservice "boardgov/contexts/board-governance/meeting-service"
	notificationservice "boardgov/contexts/board-governance/notification-service"
	resolutionservice "boardgov/contexts/board-governance/resolution-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "boardgov/internal/platform/httpserver/docs"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	resolutions   resolutionservice.Module
	meetings      meetingservice.Module
	notifications notificationservice.Module
}

func New(
	resolutions resolutionservice.Module,
	meetings meetingservice.Module,
	notifications notificationservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		resolutions:   resolutions,
		meetings:      meetings,
		notifications: notifications,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/governance/v1/resolutions", s.handleCreateResolution)
	s.mux.HandleFunc("POST /api/governance/v1/resolutions/{resolution_id}/submit", s.handleSubmitForReview)
	s.mux.HandleFunc("POST /api/governance/v1/resolutions/{resolution_id}/open-voting", s.handleOpenVoting)
	s.mux.HandleFunc("POST /api/governance/v1/resolutions/{resolution_id}/withdraw", s.handleWithdrawResolution)
	s.mux.HandleFunc("POST /api/governance/v1/resolutions/{resolution_id}/ballots", s.handleCastBallot)
	s.mux.HandleFunc("GET /api/governance/v1/resolutions/{resolution_id}", s.handleGetResolution)
	s.mux.HandleFunc("GET /api/governance/v1/resolutions/{resolution_id}/report", s.handleVotingReport)
	s.mux.HandleFunc("GET /api/governance/v1/resolutions/{resolution_id}/eligibility", s.handleBallotEligibility)
	s.mux.HandleFunc("GET /api/governance/v1/resolutions/{resolution_id}/ballots", s.handleListBallots)

	s.mux.HandleFunc("POST /api/governance/v1/meetings", s.handleScheduleMeeting)
	s.mux.HandleFunc("POST /api/governance/v1/meetings/{meeting_id}/cancel", s.handleCancelMeeting)
	s.mux.HandleFunc("POST /api/governance/v1/meetings/{meeting_id}/rsvp", s.handleRecordRSVP)
	s.mux.HandleFunc("GET /api/governance/v1/meetings", s.handleUpcomingMeetings)
	s.mux.HandleFunc("GET /api/governance/v1/meetings/{meeting_id}", s.handleMeetingDetail)
	s.mux.HandleFunc("POST /api/governance/v1/meetings/{meeting_id}/minutes", s.handleSubmitMinutes)
	s.mux.HandleFunc("GET /api/governance/v1/meetings/{meeting_id}/minutes", s.handleMeetingMinutes)
	s.mux.HandleFunc("POST /api/governance/v1/minutes/{minutes_id}/approve", s.handleApproveMinutes)

	s.mux.HandleFunc("GET /api/governance/v1/members/{member_id}/notification-preferences", s.handleGetPreference)
	s.mux.HandleFunc("PUT /api/governance/v1/members/{member_id}/notification-preferences", s.handleUpdatePreference)
	s.mux.HandleFunc("GET /api/governance/v1/members/{member_id}/notifications", s.handleMemberNotifications)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func requestUserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}
