package landing

import (
	"fmt"
	"time"
)

// RejectKind is the stable taxonomy of client-facing rejection reasons.
// The key set is a contract with the landing frontend; message text may be
// localized but keys must not change.
type RejectKind string

const (
	RejectRequiredField  RejectKind = "required_field"
	RejectInvalidEmail   RejectKind = "invalid_email"
	RejectInvalidPhone   RejectKind = "invalid_whatsapp"
	RejectInvalidName    RejectKind = "invalid_name"
	RejectSpamDetected   RejectKind = "honeypot_detected"
	RejectRateLimited    RejectKind = "rate_limit"
	RejectPastDate       RejectKind = "future_date_required"
	RejectHorizon        RejectKind = "invalid_datetime"
	RejectBusinessHours  RejectKind = "business_hours_only"
	RejectWeekend        RejectKind = "weekdays_only"
	RejectServerError    RejectKind = "server_error"
	RejectDemoConflict   RejectKind = "demo_conflict"
	RejectTrialExists    RejectKind = "trial_exists"
	RejectNetworkError   RejectKind = "network_error"
	RejectInvalidRequest RejectKind = "invalid_request"
)

// RateLimitScope identifies which sliding-window policy rejected the request.
type RateLimitScope string

const (
	ScopeIP    RateLimitScope = "ip"
	ScopeEmail RateLimitScope = "email"
)

// Messages are the user-facing Portuguese strings keyed by rejection kind.
var messages = map[RejectKind]string{
	RejectRequiredField:  "Este campo é obrigatório",
	RejectInvalidEmail:   "Por favor, insira um email válido",
	RejectInvalidPhone:   "Por favor, insira um WhatsApp válido (ex: 11999999999)",
	RejectInvalidName:    "Nome deve ter pelo menos 2 caracteres",
	RejectSpamDetected:   "Solicitação inválida detectada",
	RejectRateLimited:    "Muitas tentativas. Tente novamente em alguns minutos",
	RejectPastDate:       "Selecione uma data futura",
	RejectHorizon:        "Data deve ser dentro dos próximos 30 dias",
	RejectBusinessHours:  "Demos disponíveis apenas em horário comercial (9h às 18h)",
	RejectWeekend:        "Demos apenas em dias úteis (segunda a sexta)",
	RejectServerError:    "Erro interno. Tente novamente em alguns instantes",
	RejectDemoConflict:   "Horário não disponível. Escolha outro horário",
	RejectTrialExists:    "Você já possui um trial ativo",
	RejectNetworkError:   "Erro de conexão. Verifique sua internet",
	RejectInvalidRequest: "Requisição inválida",
}

// Message returns the localized user-facing message for a rejection kind.
func Message(kind RejectKind) string {
	if msg, ok := messages[kind]; ok {
		return msg
	}
	return "Erro desconhecido"
}

// Rejection is the explicit failure value threaded through the admission
// pipeline instead of exceptions. A nil *Rejection means accepted.
type Rejection struct {
	Kind    RejectKind
	Message string

	// Value carries the partially-cleaned input for diagnostic display on
	// invalid_whatsapp rejections. Never stored.
	Value string

	// Scope and RetryAfter are set on rate_limit rejections only.
	Scope      RateLimitScope
	RetryAfter time.Duration
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

// Reject builds a rejection with the default message for kind.
func Reject(kind RejectKind) *Rejection {
	return &Rejection{Kind: kind, Message: Message(kind)}
}

// RejectWithMessage builds a rejection with a specific message.
func RejectWithMessage(kind RejectKind, msg string) *Rejection {
	return &Rejection{Kind: kind, Message: msg}
}

// RejectRateLimit builds a throttling rejection for the given scope.
func RejectRateLimit(scope RateLimitScope, retryAfter time.Duration) *Rejection {
	msg := messages[RejectRateLimited]
	switch scope {
	case ScopeIP:
		msg = fmt.Sprintf("Muitas tentativas deste IP. Tente novamente em %d hora(s)", int(retryAfter.Hours()))
	case ScopeEmail:
		msg = fmt.Sprintf("Muitas tentativas com este email. Tente novamente em %d horas", int(retryAfter.Hours()))
	}
	return &Rejection{
		Kind:       RejectRateLimited,
		Message:    msg,
		Scope:      scope,
		RetryAfter: retryAfter,
	}
}
