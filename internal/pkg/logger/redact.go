package logger

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRegex = regexp.MustCompile(`\+?\d{10,14}`)
)

// redactValue masks PII in a log field value based on the field key and on
// patterns embedded in the value itself.
func redactValue(key, val string) string {
	lower := strings.ToLower(key)
	if strings.Contains(lower, "email") {
		return RedactEmail(val)
	}
	if strings.Contains(lower, "whatsapp") || strings.Contains(lower, "phone") {
		return RedactPhone(val)
	}
	val = emailRegex.ReplaceAllStringFunc(val, RedactEmail)
	return val
}

// RedactEmail masks an email address for safe logging.
// "joao.silva@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactPhone masks a phone number keeping only the country/area prefix and
// the last two digits: "+5511999999999" → "+5511*******99".
func RedactPhone(phone string) string {
	return phoneRegex.ReplaceAllStringFunc(phone, func(m string) string {
		digits := strings.TrimPrefix(m, "+")
		if len(digits) <= 6 {
			return "***"
		}
		prefix := digits[:4]
		suffix := digits[len(digits)-2:]
		masked := strings.Repeat("*", len(digits)-6)
		if strings.HasPrefix(m, "+") {
			prefix = "+" + prefix
		}
		return prefix + masked + suffix
	})
}
