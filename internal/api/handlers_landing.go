package api

import (
	"fmt"
	"net/http"

	"github.com/kavvi/landing-backend/internal/domain"
	"github.com/kavvi/landing-backend/internal/landing"
	"github.com/kavvi/landing-backend/internal/pkg/httputil"
)

// handleSubmit accepts a landing form submission (trial or demo interest).
//
//	POST /api/landings/submit
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub domain.LandingSubmission
	if !httputil.Decode(w, r, &sub) {
		return
	}

	meta := landing.RequestMeta{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}

	resp, rej := s.svc.Submit(r.Context(), sub, meta)
	if rej != nil {
		writeRejection(w, rej)
		return
	}
	httputil.OK(w, resp)
}

// handleScheduleDemo books a demo slot.
//
//	POST /api/landings/demo/schedule
func (s *Server) handleScheduleDemo(w http.ResponseWriter, r *http.Request) {
	var req domain.DemoScheduling
	if !httputil.Decode(w, r, &req) {
		return
	}

	meta := landing.RequestMeta{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}

	resp, rej := s.svc.ScheduleDemo(r.Context(), req, meta)
	if rej != nil {
		writeRejection(w, rej)
		return
	}
	httputil.OK(w, resp)
}

// writeRejection maps a pipeline rejection onto the HTTP response: rate
// limits become 429 with Retry-After, internal failures a generic 500,
// everything else a 400 carrying the specific reason.
func writeRejection(w http.ResponseWriter, rej *landing.Rejection) {
	switch rej.Kind {
	case landing.RejectRateLimited:
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rej.RetryAfter.Seconds())))
		httputil.Error(w, http.StatusTooManyRequests, string(rej.Kind), rej.Message)
	case landing.RejectServerError:
		httputil.Error(w, http.StatusInternalServerError, string(rej.Kind), rej.Message)
	default:
		httputil.BadRequest(w, string(rej.Kind), rej.Message)
	}
}

// handleCalendarLogin redirects the operator to the Google consent page.
//
//	GET /auth/google/login
func (s *Server) handleCalendarLogin(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		state = "kavvi-landing"
	}
	http.Redirect(w, r, s.calendar.AuthURL(state), http.StatusTemporaryRedirect)
}

// handleCalendarCallback completes the OAuth flow.
//
//	GET /auth/google/callback
func (s *Server) handleCalendarCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		httputil.BadRequest(w, "invalid_request", "Requisição inválida")
		return
	}
	if err := s.calendar.Exchange(r.Context(), code); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"success": true,
		"message": "Calendário autorizado com sucesso",
	})
}
