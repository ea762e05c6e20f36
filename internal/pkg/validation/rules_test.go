package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com", "admin@idms.com"}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}

	invalid := []string{"", "plain", "a@b", "a@.com", "@example.com", "a b@example.com"}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	assert.True(t, IsValidPhoneNumber("9876543210"))

	invalid := []string{"", "12345", "12345678901", "98765-4321", "987654321a"}
	for _, phone := range invalid {
		assert.False(t, IsValidPhoneNumber(phone), phone)
	}
}

func TestIsPastDate(t *testing.T) {
	now := time.Date(2026, time.March, 15, 14, 30, 0, 0, time.UTC)

	assert.True(t, IsPastDate(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, IsPastDate(time.Date(2026, time.March, 14, 23, 59, 59, 0, time.UTC), now))

	// Today and the future are not in the past
	assert.False(t, IsPastDate(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsPastDate(time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC), now))
}
