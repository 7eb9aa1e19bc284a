// Package crm implements the outbound KAVVI CRM API client: lead submission
// and analytics event ingestion. Both calls are best-effort from the
// orchestrator's point of view; the client reports failures but the caller
// decides they never block local acceptance.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kavvi/landing-backend/internal/config"
	"github.com/kavvi/landing-backend/internal/domain"
	"github.com/kavvi/landing-backend/internal/pkg/httpretry"
	"github.com/kavvi/landing-backend/internal/pkg/logger"
)

const eventsTenant = "kavvi-site"

// LeadPayload is the wire shape the KAVVI landings endpoint expects.
type LeadPayload struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	WhatsApp string         `json:"whatsapp"`
	Company  string         `json:"company"`
	Notes    string         `json:"notes"`
	Source   string         `json:"source"`
	UTM      domain.UTMData `json:"utm"`
}

type submitResult struct {
	ID string `json:"id"`
}

// Client talks to the KAVVI CRM API.
type Client struct {
	baseURL         string
	submitSecret    string
	eventsIngestURL string
	submitClient    httpretry.HTTPDoer
	eventsClient    httpretry.HTTPDoer
}

// NewClient creates a KAVVI API client from configuration. The events client
// gets a shorter timeout than the submit client: analytics is fire-and-forget
// and must never hold a request thread for long.
func NewClient(cfg config.KavviConfig) *Client {
	ingestURL := cfg.EventsIngestURL
	if ingestURL == "" {
		ingestURL = cfg.BaseURL + "/events/ingest"
	}
	return &Client{
		baseURL:         cfg.BaseURL,
		submitSecret:    cfg.SubmitSecret,
		eventsIngestURL: ingestURL,
		submitClient: httpretry.NewRetryClient(&http.Client{
			Timeout: 10 * time.Second,
		}, 2),
		eventsClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Configured reports whether the submit secret is present.
func (c *Client) Configured() bool { return c.submitSecret != "" }

// SubmitLead forwards an accepted lead to the KAVVI landings endpoint and
// returns the external lead id. A non-2xx response or network failure
// returns an error; callers treat it as non-fatal.
func (c *Client) SubmitLead(ctx context.Context, name, email, whatsapp, company, notes string, utm domain.UTMData) (string, error) {
	lead := LeadPayload{
		Name:     name,
		Email:    email,
		WhatsApp: whatsapp,
		Company:  company,
		Notes:    notes,
		Source:   domain.DefaultLeadSource,
		UTM:      utm,
	}
	body, err := json.Marshal(lead)
	if err != nil {
		return "", fmt.Errorf("marshaling lead payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/landings/submit", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.submitSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.submitClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting lead: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("KAVVI API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result submitResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	logger.Info("lead submitted to KAVVI", "external_lead_id", result.ID)
	return result.ID, nil
}

// Emit satisfies the orchestrator's analytics sink contract: failures stay
// inside the client.
func (c *Client) Emit(ctx context.Context, event domain.AnalyticsEvent) {
	c.SendEvent(ctx, event)
}

// SendEvent posts an analytics event to the KAVVI events pipeline.
// Best-effort: the boolean result only feeds logging and tests; failures
// must never propagate to the submission response.
func (c *Client) SendEvent(ctx context.Context, event domain.AnalyticsEvent) bool {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Warn("analytics event marshal failed", "event", event.Event, "error", err.Error())
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.eventsIngestURL, bytes.NewReader(body))
	if err != nil {
		logger.Warn("analytics event request failed", "event", event.Event, "error", err.Error())
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant", eventsTenant)

	resp, err := c.eventsClient.Do(req)
	if err != nil {
		logger.Warn("analytics event send failed", "event", event.Event, "error", err.Error())
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		logger.Debug("analytics event sent", "event", event.Event)
		return true
	}
	logger.Warn("analytics event rejected", "event", event.Event, "status", resp.StatusCode)
	return false
}
