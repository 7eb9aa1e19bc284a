package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kavvi/landing-backend/internal/domain"
	"github.com/kavvi/landing-backend/internal/pkg/httputil"
	"github.com/kavvi/landing-backend/internal/pkg/logger"
)

const landingPage = "whatsapp-lead-generation"

// handleTrackEvent forwards a funnel event to the analytics pipeline.
// Tracking is never allowed to fail a client: malformed payloads get a 400,
// everything else returns success even when the forward fails.
//
//	POST /api/analytics/track
func (s *Server) handleTrackEvent(w http.ResponseWriter, r *http.Request) {
	var event domain.AnalyticsEvent
	if !httputil.Decode(w, r, &event) {
		return
	}
	if !domain.KnownEvent(event.Event) {
		httputil.BadRequest(w, "invalid_request", "Evento desconhecido")
		return
	}

	if event.Properties == nil {
		event.Properties = map[string]any{}
	}
	event.Properties["ip_address"] = clientIP(r)
	event.Properties["user_agent"] = r.UserAgent()
	event.Properties["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	s.dispatch(event)
	httputil.OK(w, map[string]any{"success": true, "message": "Event tracked"})
}

// handlePageView tracks a landing page view.
//
//	POST /api/analytics/page_view
func (s *Server) handlePageView(w http.ResponseWriter, r *http.Request) {
	var props map[string]any
	// Body is optional for page views.
	_ = decodeOptional(r, &props)
	if props == nil {
		props = map[string]any{}
	}

	props["page"] = landingPage
	props["referrer"] = r.Referer()
	props["user_agent"] = r.UserAgent()
	props["ip_address"] = clientIP(r)

	s.dispatch(domain.AnalyticsEvent{
		Event:      domain.EventLandingView,
		Properties: props,
		Timestamp:  time.Now().UTC(),
	})
	httputil.OK(w, map[string]any{"success": true})
}

// handleCTAClick tracks a call-to-action click.
//
//	POST /api/analytics/cta_click
func (s *Server) handleCTAClick(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CTAType     string         `json:"cta_type"`
		CTALocation string         `json:"cta_location"`
		UTM         map[string]any `json:"utm"`
	}
	if !httputil.Decode(w, r, &payload) {
		return
	}

	props := map[string]any{
		"page":       landingPage,
		"user_agent": r.UserAgent(),
		"ip_address": clientIP(r),
	}
	props["cta_type"] = orUnknown(payload.CTAType)
	props["cta_location"] = orUnknown(payload.CTALocation)
	for k, v := range payload.UTM {
		props[k] = v
	}

	s.dispatch(domain.AnalyticsEvent{
		Event:      domain.EventCTAClick,
		Properties: props,
		Timestamp:  time.Now().UTC(),
	})
	httputil.OK(w, map[string]any{"success": true})
}

// dispatch hands the event to the sink off the request goroutine.
func (s *Server) dispatch(event domain.AnalyticsEvent) {
	if s.analytics == nil {
		logger.Debug("analytics sink not configured, dropping event", "event", event.Event)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.analytics.Emit(ctx, event)
	}()
}

// decodeOptional parses the body when present; an empty or malformed body is
// not an error for endpoints with optional payloads.
func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
