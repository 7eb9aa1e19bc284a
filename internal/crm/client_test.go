package crm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavvi/landing-backend/internal/config"
	"github.com/kavvi/landing-backend/internal/crm"
	"github.com/kavvi/landing-backend/internal/domain"
)

func TestSubmitLead(t *testing.T) {
	var gotAuth, gotPath string
	var gotPayload crm.LeadPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"lead-123"}`))
	}))
	defer srv.Close()

	client := crm.NewClient(config.KavviConfig{
		BaseURL:      srv.URL,
		SubmitSecret: "s3cret",
	})

	id, err := client.SubmitLead(context.Background(),
		"Maria Souza", "maria@example.com", "+5511999999999", "Acme", "notes",
		domain.UTMData{Source: "google"})
	require.NoError(t, err)
	assert.Equal(t, "lead-123", id)

	assert.Equal(t, "Bearer s3cret", gotAuth)
	assert.Equal(t, "/landings/submit", gotPath)
	assert.Equal(t, "maria@example.com", gotPayload.Email)
	assert.Equal(t, domain.DefaultLeadSource, gotPayload.Source)
	assert.Equal(t, "google", gotPayload.UTM.Source)
}

func TestSubmitLeadUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := crm.NewClient(config.KavviConfig{BaseURL: srv.URL, SubmitSecret: "wrong"})

	_, err := client.SubmitLead(context.Background(),
		"Maria", "maria@example.com", "+5511999999999", "", "", domain.UTMData{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSubmitLeadNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := crm.NewClient(config.KavviConfig{BaseURL: srv.URL, SubmitSecret: "s"})

	_, err := client.SubmitLead(context.Background(),
		"Maria", "maria@example.com", "+5511999999999", "", "", domain.UTMData{})
	require.Error(t, err)
}

func TestSendEvent(t *testing.T) {
	var gotTenant string
	var gotEvent domain.AnalyticsEvent

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTenant = r.Header.Get("X-Tenant")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := crm.NewClient(config.KavviConfig{
		BaseURL:         "https://api.example.com",
		EventsIngestURL: srv.URL + "/events/ingest",
	})

	ok := client.SendEvent(context.Background(), domain.AnalyticsEvent{
		Event:      domain.EventCTAClick,
		Properties: map[string]any{"cta_type": "hero"},
	})
	assert.True(t, ok)
	assert.Equal(t, "kavvi-site", gotTenant)
	assert.Equal(t, domain.EventCTAClick, gotEvent.Event)
}

func TestSendEventRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := crm.NewClient(config.KavviConfig{EventsIngestURL: srv.URL})

	ok := client.SendEvent(context.Background(), domain.AnalyticsEvent{Event: domain.EventLandingView})
	assert.False(t, ok)
}

func TestSendEventNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := crm.NewClient(config.KavviConfig{EventsIngestURL: srv.URL})

	ok := client.SendEvent(context.Background(), domain.AnalyticsEvent{Event: domain.EventLandingView})
	assert.False(t, ok)
}

func TestConfigured(t *testing.T) {
	assert.True(t, crm.NewClient(config.KavviConfig{SubmitSecret: "s"}).Configured())
	assert.False(t, crm.NewClient(config.KavviConfig{}).Configured())
}
