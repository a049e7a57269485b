// Package notificationservice fans governance events out to board members
// as email notifications: voting openings, vote outcomes, meeting schedules,
// and approved minutes, honoring per-member delivery preferences. Outcome
// summaries are rendered verbatim from the report embedded in
// resolution.decided events.
package notificationservice
