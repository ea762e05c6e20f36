package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFiltersIsZero(t *testing.T) {
	assert.True(t, Filters{}.IsZero())
	assert.False(t, Filters{Search: "a"}.IsZero())
	assert.False(t, Filters{Department: "HR"}.IsZero())
	assert.False(t, Filters{Designation: "Lead"}.IsZero())
	assert.False(t, Filters{Gender: "Other"}.IsZero())
}

func TestMatches(t *testing.T) {
	record := Record{
		FullName:    "Ayesha Khan",
		Email:       "ayesha.khan@example.com",
		Department:  "Engineering",
		Designation: "Senior Manager",
		Gender:      "Female",
	}

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"empty filters match everything", Filters{}, true},
		{"search hits full name case-insensitively", Filters{Search: "aYeSha"}, true},
		{"search hits email", Filters{Search: "khan@example"}, true},
		{"search hits department", Filters{Search: "engineer"}, true},
		{"search misses all three fields", Filters{Search: "finance"}, false},
		{"search does not inspect designation", Filters{Search: "senior"}, false},
		{"department exact match ignores case", Filters{Department: "engineering"}, true},
		{"department mismatch", Filters{Department: "HR"}, false},
		{"designation exact match", Filters{Designation: "Senior Manager"}, true},
		{"designation substring is not enough", Filters{Designation: "Manager"}, false},
		{"gender match", Filters{Gender: "female"}, true},
		{"filters combine with AND", Filters{Search: "ayesha", Department: "HR"}, false},
		{"all filters satisfied", Filters{Search: "khan", Department: "Engineering", Designation: "senior manager", Gender: "Female"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(record, tt.filters))
		})
	}
}
