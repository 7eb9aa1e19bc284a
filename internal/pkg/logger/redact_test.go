package logger

import "testing"

func TestRedactEmail(t *testing.T) {
	tests := []struct{ in, want string }{
		{"joao.silva@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
	}
	for _, tt := range tests {
		if got := RedactEmail(tt.in); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactPhone(t *testing.T) {
	tests := []struct{ in, want string }{
		{"+5511999999999", "+5511*******99"},
		{"5511999999999", "5511*******99"},
		{"call +5511999999999 now", "call +5511*******99 now"},
		{"short", "short"},
	}
	for _, tt := range tests {
		if got := RedactPhone(tt.in); got != tt.want {
			t.Errorf("RedactPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactValueByKey(t *testing.T) {
	if got := redactValue("email", "user@example.com"); got != "us***@example.com" {
		t.Errorf("email key not redacted: %q", got)
	}
	if got := redactValue("whatsapp", "+5511999999999"); got != "+5511*******99" {
		t.Errorf("whatsapp key not redacted: %q", got)
	}
	// Embedded emails are caught even under unrelated keys.
	if got := redactValue("error", "duplicate key user@example.com"); got == "duplicate key user@example.com" {
		t.Error("embedded email not redacted")
	}
}
