package landing

import (
	"testing"

	"github.com/kavvi/landing-backend/internal/domain"
)

func testUTM() domain.UTMData {
	return domain.UTMData{Source: "google", Medium: "cpc", Campaign: "lancamento"}
}

func TestCheckHoneypot(t *testing.T) {
	if rej := CheckHoneypot(""); rej != nil {
		t.Fatalf("empty honeypot rejected: %v", rej)
	}
	rej := CheckHoneypot("https://spam.example")
	if rej == nil {
		t.Fatal("filled honeypot accepted")
	}
	if rej.Kind != RejectSpamDetected {
		t.Errorf("kind = %s, want %s", rej.Kind, RejectSpamDetected)
	}
}

func TestValidateName(t *testing.T) {
	got, rej := ValidateName("  José Silva  ")
	if rej != nil {
		t.Fatalf("valid name rejected: %v", rej)
	}
	if got != "José Silva" {
		t.Errorf("got %q, want trimmed name", got)
	}

	for _, in := range []string{"", "A", "  B  "} {
		if _, rej := ValidateName(in); rej == nil || rej.Kind != RejectInvalidName {
			t.Errorf("ValidateName(%q) = %v, want %s rejection", in, rej, RejectInvalidName)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	got, rej := ValidateEmail(" user@example.com ")
	if rej != nil {
		t.Fatalf("valid email rejected: %v", rej)
	}
	if got != "user@example.com" {
		t.Errorf("got %q, want trimmed email", got)
	}

	if _, rej := ValidateEmail(""); rej == nil || rej.Kind != RejectRequiredField {
		t.Errorf("empty email: got %v, want %s", rej, RejectRequiredField)
	}
	if _, rej := ValidateEmail("not-an-email"); rej == nil || rej.Kind != RejectInvalidEmail {
		t.Errorf("malformed email: got %v, want %s", rej, RejectInvalidEmail)
	}
}

// The honeypot check runs before any field validation so bots never learn
// which of their fields was malformed.
func TestAdmitHoneypotPrecedence(t *testing.T) {
	_, rej := admit("filled", "", "bad-email", "123", "", "", testUTM())
	if rej == nil {
		t.Fatal("expected rejection")
	}
	if rej.Kind != RejectSpamDetected {
		t.Errorf("kind = %s, want %s", rej.Kind, RejectSpamDetected)
	}
}

func TestAdmitNormalizes(t *testing.T) {
	norm, rej := admit("", "  Maria  ", "MARIA@Example.COM", "11999999999", "<b>Acme</b>", "note", testUTM())
	if rej != nil {
		t.Fatalf("valid submission rejected: %v", rej)
	}
	if norm.Name != "Maria" {
		t.Errorf("name = %q", norm.Name)
	}
	if norm.Email != "maria@example.com" {
		t.Errorf("email = %q, want lowercased", norm.Email)
	}
	if norm.WhatsApp != "+5511999999999" {
		t.Errorf("whatsapp = %q", norm.WhatsApp)
	}
	if norm.Company != "Acme" {
		t.Errorf("company = %q, want tag-stripped", norm.Company)
	}
	if norm.UTM.Source != "google" {
		t.Errorf("utm source = %q", norm.UTM.Source)
	}
}
