// Package calendar books demo slots in the sales team's Google Calendar.
// OAuth is the standard authorization-code flow; the access token is obtained
// once by a human operator through the consent URL and kept refreshed by the
// oauth2 token source.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/kavvi/landing-backend/internal/config"
	"github.com/kavvi/landing-backend/internal/pkg/logger"
)

const (
	calendarScope  = "https://www.googleapis.com/auth/calendar.events"
	eventsEndpoint = "https://www.googleapis.com/calendar/v3/calendars/primary/events"

	demoDuration = 30 * time.Minute
	eventZone    = "America/Sao_Paulo"
)

// Client creates demo events on the primary sales calendar.
type Client struct {
	oauth    *oauth2.Config
	salesRep string

	mu    sync.Mutex
	token *oauth2.Token
}

// NewClient builds a calendar client from OAuth credentials. The client is
// inert until a token is set via Exchange or SetToken.
func NewClient(cfg config.GoogleConfig, salesRepEmail string) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{calendarScope},
			Endpoint:     google.Endpoint,
		},
		salesRep: salesRepEmail,
	}
}

// AuthURL returns the Google consent URL for the calendar scope. The state
// value round-trips through the callback for CSRF protection.
func (c *Client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for a token and stores it.
func (c *Client) Exchange(ctx context.Context, code string) error {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}
	c.SetToken(token)
	logger.Info("calendar authorization completed", "expires", token.Expiry.Format(time.RFC3339))
	return nil
}

// SetToken installs a previously obtained token.
func (c *Client) SetToken(token *oauth2.Token) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Authorized reports whether a token is available.
func (c *Client) Authorized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != nil
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type attendee struct {
	Email string `json:"email"`
}

type reminderOverride struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

type reminders struct {
	UseDefault bool               `json:"useDefault"`
	Overrides  []reminderOverride `json:"overrides"`
}

type eventPayload struct {
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Start       eventTime  `json:"start"`
	End         eventTime  `json:"end"`
	Attendees   []attendee `json:"attendees"`
	Reminders   reminders  `json:"reminders"`
}

type eventResult struct {
	ID string `json:"id"`
}

// CreateDemoEvent books a 30-minute demo and returns the calendar event id.
func (c *Client) CreateDemoEvent(ctx context.Context, name, email, whatsapp, company string, start time.Time) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == nil {
		return "", fmt.Errorf("calendar not authorized")
	}

	if company == "" {
		company = "N/A"
	}
	payload := eventPayload{
		Summary: "Demo KAVVI CRM - " + name,
		Description: fmt.Sprintf(
			"Demo KAVVI CRM\n\nCliente: %s\nEmpresa: %s\nTelefone: %s\nEmail: %s",
			name, company, whatsapp, email),
		Start: eventTime{DateTime: start.Format(time.RFC3339), TimeZone: eventZone},
		End:   eventTime{DateTime: start.Add(demoDuration).Format(time.RFC3339), TimeZone: eventZone},
		Attendees: []attendee{
			{Email: email},
			{Email: c.salesRep},
		},
		Reminders: reminders{
			UseDefault: false,
			Overrides: []reminderOverride{
				{Method: "email", Minutes: 60},
				{Method: "popup", Minutes: 15},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, eventsEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// oauth.Client refreshes the token transparently when expired.
	resp, err := c.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return "", fmt.Errorf("create calendar event: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("calendar API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result eventResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	logger.Info("calendar event created", "event_id", result.ID)
	return result.ID, nil
}
