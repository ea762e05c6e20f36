package validation

import (
	"regexp"
	"time"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Phone number pattern - exactly 10 digits
	PhonePattern = `^\d{10}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
	Phone *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	Phone: regexp.MustCompile(PhonePattern),
}

// IsValidEmail checks email format
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// IsValidPhoneNumber checks that the value is exactly 10 digits
func IsValidPhoneNumber(phone string) bool {
	return CompiledPatterns.Phone.MatchString(phone)
}

// IsPastDate reports whether the date is strictly before today. The
// comparison is against the start of the current day, so today's date
// itself fails.
func IsPastDate(date time.Time, now time.Time) bool {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return date.Before(startOfToday)
}
