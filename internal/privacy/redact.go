// Package privacy removes contact details from resume text before it leaves
// the process.
package privacy

import (
	"regexp"
	"strings"
)

const (
	EmailMask = "[EMAIL_MASKED]"
	PhoneMask = "[PHONE_MASKED]"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+`)
	phonePattern = regexp.MustCompile(`\+?\d[\d -]{8,12}\d`)
)

// Redact replaces every email-like token and then every phone-like digit run.
// Applying it twice yields the same text as applying it once.
func Redact(text string) string {
	text = emailPattern.ReplaceAllString(text, EmailMask)
	return phonePattern.ReplaceAllString(text, PhoneMask)
}

// FindEmail returns the first email-like token in text.
func FindEmail(text string) string {
	return strings.TrimSpace(emailPattern.FindString(text))
}

// FindPhone returns the first phone-like digit run in text.
func FindPhone(text string) string {
	return strings.TrimSpace(phonePattern.FindString(text))
}
