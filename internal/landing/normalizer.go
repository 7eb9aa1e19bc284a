package landing

import (
	"regexp"
	"strings"
)

// brPhoneRegex matches the accepted E.164-like Brazilian format: +55, a
// two-digit area code whose first digit is 1-9, then an 8- or 9-digit number.
var brPhoneRegex = regexp.MustCompile(`^\+55[1-9][0-9]{8,9}$`)

// tagRegex matches angle-bracket-delimited tag-like spans for removal.
var tagRegex = regexp.MustCompile(`<[^>]+>`)

// emailRegex is the accepted email shape. Deliberately loose: real
// verification happens downstream in the CRM.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// NormalizePhone validates and normalizes a WhatsApp number to the +55
// international format. Normalization is idempotent: an already-normalized
// number passes through unchanged.
func NormalizePhone(raw string) (string, *Rejection) {
	if strings.TrimSpace(raw) == "" {
		return "", RejectWithMessage(RejectRequiredField, "WhatsApp é obrigatório")
	}

	cleaned := cleanPhone(raw)

	if !strings.HasPrefix(cleaned, "+") {
		if strings.HasPrefix(cleaned, "55") {
			cleaned = "+" + cleaned
		} else {
			cleaned = "+55" + cleaned
		}
	}

	if !brPhoneRegex.MatchString(cleaned) {
		rej := RejectWithMessage(RejectInvalidPhone, "WhatsApp inválido. Use o formato: 11999999999")
		rej.Value = cleaned
		return "", rej
	}

	return cleaned, nil
}

// cleanPhone strips every character that is not a digit, keeping a single
// leading plus sign.
func cleanPhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeText strips tag-like substrings, trims surrounding whitespace and
// truncates the result to maxLength characters. The tag removal is a single
// non-recursive pass; no entity decoding is performed.
func SanitizeText(raw string, maxLength int) string {
	if raw == "" {
		return ""
	}
	cleaned := tagRegex.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(cleaned)
	if runes := []rune(cleaned); len(runes) > maxLength {
		cleaned = string(runes[:maxLength])
	}
	return cleaned
}

// ValidEmail reports whether the address matches the accepted email shape.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
