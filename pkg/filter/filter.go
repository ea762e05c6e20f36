// Package filter holds the employee list filter predicate. The server
// applies the same semantics inside SQL and the client reuses Matches to
// reconcile optimistic mutations against the active filters, so the rules
// live in exactly one place.
package filter

import "strings"

// Filters is the combined filter state for the employee list. Empty
// values mean "not filtered".
type Filters struct {
	Search      string
	Department  string
	Designation string
	Gender      string
}

// IsZero reports whether no filter is active.
func (f Filters) IsZero() bool {
	return f.Search == "" && f.Department == "" && f.Designation == "" && f.Gender == ""
}

// Record carries the employee fields the predicate inspects.
type Record struct {
	FullName    string
	Email       string
	Department  string
	Designation string
	Gender      string
}

// Matches reports whether a record satisfies the filters. Search matches
// case-insensitively as a substring against full name, email OR
// department; the remaining filters match their field exactly, ignoring
// case. All provided filters combine with AND.
func Matches(r Record, f Filters) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.FullName), needle) &&
			!strings.Contains(strings.ToLower(r.Email), needle) &&
			!strings.Contains(strings.ToLower(r.Department), needle) {
			return false
		}
	}
	if f.Department != "" && !strings.EqualFold(r.Department, f.Department) {
		return false
	}
	if f.Designation != "" && !strings.EqualFold(r.Designation, f.Designation) {
		return false
	}
	if f.Gender != "" && !strings.EqualFold(r.Gender, f.Gender) {
		return false
	}
	return true
}
