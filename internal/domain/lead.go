package domain

import "time"

// ActionType distinguishes what the visitor asked for on the landing page.
type ActionType string

const (
	ActionTrial ActionType = "trial"
	ActionDemo  ActionType = "demo"
)

// Valid reports whether the action type is one the landing form can send.
func (a ActionType) Valid() bool {
	return a == ActionTrial || a == ActionDemo
}

// LeadStatus tracks the lifecycle tag on a stored lead.
type LeadStatus string

const (
	LeadStatusActive LeadStatus = "active"
)

// DefaultLeadSource tags leads captured by this backend. The value is part of
// the wire contract with the KAVVI CRM API.
const DefaultLeadSource = "landing-whatsapp"

// UTMData carries marketing attribution parameters through the funnel.
// Values are pass-through: sanitized and truncated, never interpreted.
type UTMData struct {
	Source      string `json:"utm_source,omitempty" db:"utm_source"`
	Medium      string `json:"utm_medium,omitempty" db:"utm_medium"`
	Campaign    string `json:"utm_campaign,omitempty" db:"utm_campaign"`
	Term        string `json:"utm_term,omitempty" db:"utm_term"`
	Content     string `json:"utm_content,omitempty" db:"utm_content"`
	GCLID       string `json:"gclid,omitempty" db:"gclid"`
	GBRAID      string `json:"gbraid,omitempty" db:"gbraid"`
	WBRAID      string `json:"wbraid,omitempty" db:"wbraid"`
	FBCLID      string `json:"fbclid,omitempty" db:"fbclid"`
	MSCLKID     string `json:"msclkid,omitempty" db:"msclkid"`
	Referrer    string `json:"referrer,omitempty" db:"referrer"`
	Device      string `json:"device,omitempty" db:"device"`
	Placement   string `json:"placement,omitempty" db:"placement"`
	DKInsertion string `json:"dkinsertion,omitempty" db:"dkinsertion"`
}

// IsZero reports whether no attribution field is set.
func (u UTMData) IsZero() bool {
	return u == UTMData{}
}

// LandingSubmission is the raw landing page form payload, before any
// normalization. Website is the honeypot field: hidden from humans, it must
// arrive empty.
type LandingSubmission struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	WhatsApp   string     `json:"whatsapp"`
	Company    string     `json:"company,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	ActionType ActionType `json:"action_type"`
	UTM        UTMData    `json:"utm,omitempty"`
	Website    string     `json:"website,omitempty"`
}

// DemoScheduling is the demo-slot booking payload.
type DemoScheduling struct {
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	WhatsApp          string    `json:"whatsapp"`
	Company           string    `json:"company,omitempty"`
	PreferredDateTime time.Time `json:"preferred_datetime"`
	Timezone          string    `json:"timezone,omitempty"`
	UTM               UTMData   `json:"utm,omitempty"`
	Website           string    `json:"website,omitempty"`
}

// LandingResponse is what the landing page receives back on success.
type LandingResponse struct {
	Success         bool       `json:"success"`
	Message         string     `json:"message"`
	TrialExpires    *time.Time `json:"trial_expires,omitempty"`
	DemoScheduled   *time.Time `json:"demo_scheduled,omitempty"`
	CalendarEventID string     `json:"calendar_event_id,omitempty"`
}

// LeadRecord is the durable representation of an accepted submission.
// Field names are a stable storage contract.
type LeadRecord struct {
	ID              string     `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	WhatsApp        string     `json:"whatsapp" db:"whatsapp"`
	Company         string     `json:"company,omitempty" db:"company"`
	Source          string     `json:"source" db:"source"`
	ActionType      ActionType `json:"action_type" db:"action_type"`
	UTMData         UTMData    `json:"utm_data,omitempty" db:"utm_data"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	TrialExpires    *time.Time `json:"trial_expires,omitempty" db:"trial_expires"`
	DemoScheduled   *time.Time `json:"demo_scheduled,omitempty" db:"demo_scheduled"`
	CalendarEventID string     `json:"calendar_event_id,omitempty" db:"calendar_event_id"`
	ExternalLeadID  string     `json:"external_lead_id,omitempty" db:"external_lead_id"`
	Status          LeadStatus `json:"status" db:"status"`
}
