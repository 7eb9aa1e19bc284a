package domain

import "time"

// Analytics event names accepted by the tracking endpoint. The set mirrors
// what the KAVVI events pipeline ingests.
const (
	EventLandingView   = "landing_view"
	EventCTAClick      = "cta_click"
	EventFormSubmit    = "form_submit"
	EventTrialStarted  = "trial_started"
	EventDemoScheduled = "demo_scheduled"
)

var knownEvents = map[string]bool{
	EventLandingView:   true,
	EventCTAClick:      true,
	EventFormSubmit:    true,
	EventTrialStarted:  true,
	EventDemoScheduled: true,
}

// KnownEvent reports whether name is an accepted analytics event name.
func KnownEvent(name string) bool { return knownEvents[name] }

// AnalyticsEvent is a funnel tracking event forwarded to the KAVVI events
// pipeline. Properties are opaque pass-through data.
type AnalyticsEvent struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  time.Time      `json:"timestamp,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
}
