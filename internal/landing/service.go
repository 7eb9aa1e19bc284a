// Package landing implements the submission admission pipeline for the
// KAVVI landing page: normalization, honeypot and shape validation,
// rate-limit enforcement, demo-slot validation and the orchestration that
// hands accepted leads to the CRM, the analytics pipeline and local storage.
package landing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kavvi/landing-backend/internal/domain"
	"github.com/kavvi/landing-backend/internal/pkg/logger"
	"github.com/kavvi/landing-backend/internal/ratelimit"
)

// Field length budgets applied after tag-stripping and trimming.
const (
	maxNameLen    = 100
	maxCompanyLen = 100
	maxNotesLen   = 500
	maxUTMLen     = 255
)

const landingPage = "whatsapp-lead-generation"

// LeadSink forwards accepted leads to the external CRM. Failure is
// non-fatal: local persistence and the success response do not depend on it.
type LeadSink interface {
	SubmitLead(ctx context.Context, name, email, whatsapp, company, notes string, utm domain.UTMData) (externalID string, err error)
}

// AnalyticsSink emits funnel events. Best-effort by contract: it never
// returns an error and its failures are invisible to callers.
type AnalyticsSink interface {
	Emit(ctx context.Context, event domain.AnalyticsEvent)
}

// LeadStore persists accepted leads locally.
type LeadStore interface {
	Insert(ctx context.Context, lead *domain.LeadRecord) error
}

// CalendarScheduler books the demo slot in the sales calendar and returns
// the calendar event id.
type CalendarScheduler interface {
	CreateDemoEvent(ctx context.Context, name, email, whatsapp, company string, start time.Time) (string, error)
}

// RequestMeta carries request-scoped context the pipeline enriches events
// with.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// Options tunes non-structural service behavior.
type Options struct {
	Source        string
	TrialDuration time.Duration
}

// Service is the submission orchestrator. All collaborators are injected;
// the service holds no global state and is safe for concurrent use.
type Service struct {
	limiter   *ratelimit.Limiter
	leads     LeadStore
	crm       LeadSink
	analytics AnalyticsSink
	calendar  CalendarScheduler
	source    string
	trialTTL  time.Duration
	now       func() time.Time
}

// NewService wires the orchestrator. crm, analytics and calendar may be nil;
// the corresponding step is skipped (calendar falls back to an opaque
// scheduling id).
func NewService(limiter *ratelimit.Limiter, leads LeadStore, crm LeadSink, analytics AnalyticsSink, calendar CalendarScheduler, opts Options) *Service {
	source := opts.Source
	if source == "" {
		source = domain.DefaultLeadSource
	}
	trialTTL := opts.TrialDuration
	if trialTTL <= 0 {
		trialTTL = 72 * time.Hour
	}
	return &Service{
		limiter:   limiter,
		leads:     leads,
		crm:       crm,
		analytics: analytics,
		calendar:  calendar,
		source:    source,
		trialTTL:  trialTTL,
		now:       time.Now,
	}
}

// SetClock overrides the service clock. Test hook.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// normalized holds the outcome of the validation/normalization stage.
type normalized struct {
	Name     string
	Email    string
	WhatsApp string
	Company  string
	Notes    string
	UTM      domain.UTMData
}

// admit runs honeypot, shape validation and normalization. No I/O.
func admit(honeypot, name, email, whatsapp, company, notes string, utm domain.UTMData) (*normalized, *Rejection) {
	if rej := CheckHoneypot(honeypot); rej != nil {
		return nil, rej
	}

	cleanName, rej := ValidateName(SanitizeText(name, maxNameLen))
	if rej != nil {
		return nil, rej
	}
	cleanEmail, rej := ValidateEmail(email)
	if rej != nil {
		return nil, rej
	}
	phone, rej := NormalizePhone(whatsapp)
	if rej != nil {
		return nil, rej
	}

	return &normalized{
		Name:     cleanName,
		Email:    strings.ToLower(cleanEmail),
		WhatsApp: phone,
		Company:  SanitizeText(company, maxCompanyLen),
		Notes:    SanitizeText(notes, maxNotesLen),
		UTM:      sanitizeUTM(utm),
	}, nil
}

// sanitizeUTM truncates and tag-strips every attribution value. Attribution
// is pass-through data; no semantic validation.
func sanitizeUTM(u domain.UTMData) domain.UTMData {
	clean := func(v string) string { return SanitizeText(v, maxUTMLen) }
	return domain.UTMData{
		Source:      clean(u.Source),
		Medium:      clean(u.Medium),
		Campaign:    clean(u.Campaign),
		Term:        clean(u.Term),
		Content:     clean(u.Content),
		GCLID:       clean(u.GCLID),
		GBRAID:      clean(u.GBRAID),
		WBRAID:      clean(u.WBRAID),
		FBCLID:      clean(u.FBCLID),
		MSCLKID:     clean(u.MSCLKID),
		Referrer:    clean(u.Referrer),
		Device:      clean(u.Device),
		Placement:   clean(u.Placement),
		DKInsertion: clean(u.DKInsertion),
	}
}

// enforceRateLimit checks both policies and records the attempt exactly once
// per submission: record-then-short-circuit on a block, record-then-proceed
// otherwise.
func (s *Service) enforceRateLimit(ctx context.Context, ip, email string) *Rejection {
	decision := s.limiter.Check(ctx, ip, email)
	s.limiter.RecordAttempt(ctx, ip, email)
	if decision.Allowed {
		return nil
	}
	scope := ScopeIP
	if decision.Scope == ratelimit.ScopeEmail {
		scope = ScopeEmail
	}
	return RejectRateLimit(scope, decision.RetryAfter)
}

// Submit runs the full admission pipeline for a landing form submission and,
// on acceptance, forwards the lead to the CRM, persists it locally and emits
// the funnel events. The local lead write happens only after validation and
// rate-limit recording; CRM failure never aborts local acceptance.
func (s *Service) Submit(ctx context.Context, sub domain.LandingSubmission, meta RequestMeta) (*domain.LandingResponse, *Rejection) {
	if !sub.ActionType.Valid() {
		return nil, Reject(RejectInvalidRequest)
	}

	norm, rej := admit(sub.Website, sub.Name, sub.Email, sub.WhatsApp, sub.Company, sub.Notes, sub.UTM)
	if rej != nil {
		return nil, rej
	}

	if rej := s.enforceRateLimit(ctx, meta.IP, norm.Email); rej != nil {
		return nil, rej
	}

	externalID := s.submitToCRM(ctx, norm)

	now := s.now()
	lead := &domain.LeadRecord{
		ID:             uuid.New().String(),
		Name:           norm.Name,
		Email:          norm.Email,
		WhatsApp:       norm.WhatsApp,
		Company:        norm.Company,
		Source:         s.source,
		ActionType:     sub.ActionType,
		UTMData:        norm.UTM,
		CreatedAt:      now,
		ExternalLeadID: externalID,
		Status:         domain.LeadStatusActive,
	}

	resp := &domain.LandingResponse{
		Success: true,
		Message: "Cadastro realizado com sucesso!",
	}

	switch sub.ActionType {
	case domain.ActionTrial:
		expires := now.Add(s.trialTTL)
		lead.TrialExpires = &expires
		resp.TrialExpires = &expires
		resp.Message = "Trial de 3 dias ativado com sucesso! Acesse sua conta em breve."
	case domain.ActionDemo:
		resp.Message = "Interesse em demo registrado! Nossa equipe entrará em contato."
	}

	if err := s.leads.Insert(ctx, lead); err != nil {
		logger.Error("lead insert failed", "email", norm.Email, "error", err.Error())
		return nil, Reject(RejectServerError)
	}

	s.emitSubmitEvents(sub.ActionType, norm, meta)

	return resp, nil
}

// ScheduleDemo books a demo slot: same admission pipeline as Submit plus the
// business-hours slot validation, then calendar booking and persistence.
func (s *Service) ScheduleDemo(ctx context.Context, req domain.DemoScheduling, meta RequestMeta) (*domain.LandingResponse, *Rejection) {
	norm, rej := admit(req.Website, req.Name, req.Email, req.WhatsApp, req.Company, "", req.UTM)
	if rej != nil {
		return nil, rej
	}

	if rej := s.enforceRateLimit(ctx, meta.IP, norm.Email); rej != nil {
		return nil, rej
	}

	now := s.now()
	if rej := ValidateDemoSlot(req.PreferredDateTime, now); rej != nil {
		return nil, rej
	}

	eventID := s.bookCalendarSlot(ctx, norm, req.PreferredDateTime)

	demoAt := req.PreferredDateTime
	lead := &domain.LeadRecord{
		ID:              uuid.New().String(),
		Name:            norm.Name,
		Email:           norm.Email,
		WhatsApp:        norm.WhatsApp,
		Company:         norm.Company,
		Source:          s.source,
		ActionType:      domain.ActionDemo,
		UTMData:         norm.UTM,
		CreatedAt:       now,
		DemoScheduled:   &demoAt,
		CalendarEventID: eventID,
		Status:          domain.LeadStatusActive,
	}

	if err := s.leads.Insert(ctx, lead); err != nil {
		logger.Error("demo lead insert failed", "email", norm.Email, "error", err.Error())
		return nil, Reject(RejectServerError)
	}

	s.emit(domain.AnalyticsEvent{
		Event: domain.EventDemoScheduled,
		Properties: map[string]any{
			"page":          landingPage,
			"demo_datetime": demoAt.Format(time.RFC3339),
			"email":         norm.Email,
			"utm_source":    norm.UTM.Source,
			"user_agent":    meta.UserAgent,
			"ip_address":    meta.IP,
		},
	})

	return &domain.LandingResponse{
		Success:         true,
		Message:         fmt.Sprintf("Demo agendado para %s", demoAt.In(brazilLocation).Format("02/01/2006 às 15:04")),
		DemoScheduled:   &demoAt,
		CalendarEventID: eventID,
	}, nil
}

// submitToCRM forwards the lead and returns the external id, or empty on any
// failure. Upstream unavailability is absorbed: the lead is still accepted
// locally with a null external id.
func (s *Service) submitToCRM(ctx context.Context, norm *normalized) string {
	if s.crm == nil {
		return ""
	}
	externalID, err := s.crm.SubmitLead(ctx, norm.Name, norm.Email, norm.WhatsApp, norm.Company, norm.Notes, norm.UTM)
	if err != nil {
		logger.Warn("CRM lead submit failed, keeping local copy", "email", norm.Email, "error", err.Error())
		return ""
	}
	return externalID
}

// bookCalendarSlot creates the calendar event, or mints an opaque scheduling
// id when the calendar integration is absent or failing. The id correlates
// the lead with a downstream calendar event either way.
func (s *Service) bookCalendarSlot(ctx context.Context, norm *normalized, start time.Time) string {
	if s.calendar != nil {
		id, err := s.calendar.CreateDemoEvent(ctx, norm.Name, norm.Email, norm.WhatsApp, norm.Company, start)
		if err == nil && id != "" {
			return id
		}
		if err != nil {
			logger.Warn("calendar event creation failed, minting local id", "error", err.Error())
		}
	}
	return "demo_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// emitSubmitEvents sends the action-specific event plus the generic
// form_submit event.
func (s *Service) emitSubmitEvents(action domain.ActionType, norm *normalized, meta RequestMeta) {
	switch action {
	case domain.ActionTrial:
		s.emit(domain.AnalyticsEvent{
			Event: domain.EventTrialStarted,
			Properties: map[string]any{
				"page":       landingPage,
				"email":      norm.Email,
				"utm_source": norm.UTM.Source,
				"user_agent": meta.UserAgent,
				"ip_address": meta.IP,
			},
		})
	case domain.ActionDemo:
		s.emit(domain.AnalyticsEvent{
			Event: domain.EventFormSubmit,
			Properties: map[string]any{
				"page":       landingPage,
				"action":     "demo_interest",
				"email":      norm.Email,
				"utm_source": norm.UTM.Source,
				"user_agent": meta.UserAgent,
				"ip_address": meta.IP,
			},
		})
	}

	s.emit(domain.AnalyticsEvent{
		Event: domain.EventFormSubmit,
		Properties: map[string]any{
			"page":         landingPage,
			"action_type":  string(action),
			"utm_source":   norm.UTM.Source,
			"utm_medium":   norm.UTM.Medium,
			"utm_campaign": norm.UTM.Campaign,
			"referrer":     norm.UTM.Referrer,
			"user_agent":   meta.UserAgent,
			"ip_address":   meta.IP,
		},
	})
}

// emit dispatches an analytics event without blocking the critical path.
// No ordering guarantee is required; failures stay inside the sink.
func (s *Service) emit(event domain.AnalyticsEvent) {
	if s.analytics == nil {
		return
	}
	event.Timestamp = s.now().UTC()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.analytics.Emit(ctx, event)
	}()
}
