package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type UpdatePreferenceRequest struct {
	EmailEnabled    bool     `json:"email_enabled"`
	MutedCategories []string `json:"muted_categories,omitempty"`
}

type PreferenceResponse struct {
	MemberID        string   `json:"member_id"`
	EmailEnabled    bool     `json:"email_enabled"`
	MutedCategories []string `json:"muted_categories,omitempty"`
}

type NotificationItem struct {
	NotificationID string     `json:"notification_id"`
	Category       string     `json:"category"`
	Subject        string     `json:"subject"`
	Status         string     `json:"status"`
	Attempts       int        `json:"attempts"`
	LastError      string     `json:"last_error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
}

type NotificationListResponse struct {
	MemberID string             `json:"member_id"`
	Items    []NotificationItem `json:"items"`
}
