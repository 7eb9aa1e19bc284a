package landing

import "strings"

// CheckHoneypot rejects submissions whose hidden form field arrived
// non-empty. Legitimate browsers never fill it; any value means automation.
// The content itself is never logged.
func CheckHoneypot(hiddenFieldValue string) *Rejection {
	if hiddenFieldValue != "" {
		return Reject(RejectSpamDetected)
	}
	return nil
}

// ValidateName trims and validates the visitor name. Accepted value is the
// trimmed string.
func ValidateName(raw string) (string, *Rejection) {
	trimmed := strings.TrimSpace(raw)
	if len([]rune(trimmed)) < 2 {
		return "", Reject(RejectInvalidName)
	}
	return trimmed, nil
}

// ValidateEmail checks presence and shape of the contact email.
func ValidateEmail(raw string) (string, *Rejection) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", RejectWithMessage(RejectRequiredField, "Email é obrigatório")
	}
	if !ValidEmail(email) {
		return "", Reject(RejectInvalidEmail)
	}
	return email, nil
}
