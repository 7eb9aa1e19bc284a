package landing

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare local number", "11999999999", "+5511999999999"},
		{"with country code", "5511999999999", "+5511999999999"},
		{"already normalized", "+5511999999999", "+5511999999999"},
		{"formatted", "(11) 99999-9999", "+5511999999999"},
		{"spaced", "11 99999 9999", "+5511999999999"},
		{"landline length", "1133334444", "+551133334444"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rej := NormalizePhone(tt.in)
			if rej != nil {
				t.Fatalf("NormalizePhone(%q) rejected: %v", tt.in, rej)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	first, rej := NormalizePhone("11999999999")
	if rej != nil {
		t.Fatalf("first pass rejected: %v", rej)
	}
	second, rej := NormalizePhone(first)
	if rej != nil {
		t.Fatalf("second pass rejected: %v", rej)
	}
	if second != first {
		t.Errorf("normalization not idempotent: %q -> %q", first, second)
	}
}

func TestNormalizePhoneRejections(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind RejectKind
	}{
		{"empty", "", RejectRequiredField},
		{"whitespace only", "   ", RejectRequiredField},
		{"too short", "123", RejectInvalidPhone},
		{"area code starting with zero", "0199999999", RejectInvalidPhone},
		{"foreign number", "+1 555 123 4567", RejectInvalidPhone},
		{"too long", "119999999999", RejectInvalidPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rej := NormalizePhone(tt.in)
			if rej == nil {
				t.Fatalf("NormalizePhone(%q) accepted, want %s rejection", tt.in, tt.kind)
			}
			if rej.Kind != tt.kind {
				t.Errorf("NormalizePhone(%q) kind = %s, want %s", tt.in, rej.Kind, tt.kind)
			}
		})
	}
}

func TestNormalizePhoneRejectionCarriesValue(t *testing.T) {
	_, rej := NormalizePhone("123")
	if rej == nil {
		t.Fatal("expected rejection")
	}
	if rej.Value != "+55123" {
		t.Errorf("rejection value = %q, want %q", rej.Value, "+55123")
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"strips tags", "<script>alert(1)</script>hello", 100, "alert(1)hello"},
		{"strips standalone tag", "<b>bold</b>", 100, "bold"},
		{"trims whitespace", "  padded  ", 100, "padded"},
		{"trim then truncate", "  padded  ", 3, "pad"},
		{"truncates runes not bytes", "ação brasileira", 4, "ação"},
		{"empty", "", 100, ""},
		{"plain text untouched", "Empresa & Cia", 100, "Empresa & Cia"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.in, tt.max); got != tt.want {
				t.Errorf("SanitizeText(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.domain.co", "a_b-c@host.io"}
	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false, want true", e)
		}
	}
	invalid := []string{"", "plainaddress", "@no-local.com", "user@", "user@nodot", "user @host.com"}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true, want false", e)
		}
	}
}
