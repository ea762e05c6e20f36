package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/idms/ems/pkg/filter"
)

// PageSize is the number of rows shown per page
const PageSize = 11

// DefaultDebounce is the delay applied to filter-driven refetches
const DefaultDebounce = 250 * time.Millisecond

// Fallback option sets used until a list response delivers server-side ones
var (
	DefaultDepartments  = []string{"HR", "Engineering", "Finance", "Marketing", "Operations", "Admin"}
	DefaultDesignations = []string{"Intern", "Executive", "Manager", "Senior Manager", "Lead", "Director"}
	DefaultGenders      = []string{"Male", "Female", "Other"}
)

// directory is the slice of the API that ListSync needs
type directory interface {
	ListEmployees(ctx context.Context, f filter.Filters) (*EmployeeList, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

// ListSync keeps a client-side view of the employee list in step with
// the server. Filter changes trigger a debounced refetch; responses that
// arrive out of order are dropped so a slow reply never overwrites the
// result of a newer request. Mutations are reflected in the local view
// without a refetch, and deletion is optimistic with rollback.
type ListSync struct {
	mu sync.Mutex

	api      directory
	debounce time.Duration

	employees []Employee
	meta      Meta
	filters   filter.Filters
	page      int
	errMsg    string
	deleting  map[int64]bool

	seq    uint64
	cancel context.CancelFunc
	timer  *time.Timer
}

// SyncOption customizes a ListSync
type SyncOption func(*ListSync)

// WithDebounce overrides the filter debounce interval
func WithDebounce(d time.Duration) SyncOption {
	return func(s *ListSync) { s.debounce = d }
}

// NewListSync creates a synchronizer over the given API client
func NewListSync(api directory, opts ...SyncOption) *ListSync {
	s := &ListSync{
		api:      api,
		debounce: DefaultDebounce,
		page:     1,
		deleting: make(map[int64]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Filters returns the active filter set
func (s *ListSync) Filters() filter.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetFilters replaces the active filters, resets to the first page and
// schedules a debounced refetch. Rapid successive calls coalesce into a
// single request carrying the final filter state.
func (s *ListSync) SetFilters(f filter.Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = f
	s.page = 1

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.fetchLocked()
	})
}

// Refresh refetches the list immediately, bypassing the debounce
func (s *ListSync) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.fetchLocked()
}

// fetchLocked starts a fetch for the current filters. The caller holds
// the mutex. Any in-flight request is cancelled; its reply, and any reply
// that is not the latest by sequence number, is discarded.
func (s *ListSync) fetchLocked() {
	if s.cancel != nil {
		s.cancel()
	}

	s.seq++
	id := s.seq
	s.errMsg = ""

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	f := s.filters
	go func() {
		list, err := s.api.ListEmployees(ctx, f)

		s.mu.Lock()
		defer s.mu.Unlock()

		if id != s.seq {
			return
		}
		if err != nil {
			// Cancellation means a newer request superseded this one
			if errors.Is(err, context.Canceled) {
				return
			}
			s.errMsg = loadErrorMessage(err)
			return
		}

		s.employees = list.Employees
		if !list.Meta.IsZero() {
			s.meta = list.Meta
		}
	}()
}

func loadErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Failed to load employees"
}

// Err returns the message of the last failed operation, if any
func (s *ListSync) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Employees returns the full synchronized list
func (s *ListSync) Employees() []Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Employee, len(s.employees))
	copy(out, s.employees)
	return out
}

// Meta returns the dropdown option sets, falling back to the built-in
// defaults for any set the server has not supplied yet
func (s *ListSync) Meta() Meta {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.meta
	if len(m.Departments) == 0 {
		m.Departments = DefaultDepartments
	}
	if len(m.Designations) == 0 {
		m.Designations = DefaultDesignations
	}
	if len(m.Genders) == 0 {
		m.Genders = DefaultGenders
	}
	return m
}

// Page returns the current 1-based page number
func (s *ListSync) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SetPage moves to the given page, clamped to the valid range
func (s *ListSync) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = clampPage(page, len(s.employees))
}

// PageCount returns the number of pages; an empty list still has one page
func (s *ListSync) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pageCount(len(s.employees))
}

// VisibleEmployees returns the rows of the current page
func (s *ListSync) VisibleEmployees() []Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := clampPage(s.page, len(s.employees))
	start := (page - 1) * PageSize
	if start >= len(s.employees) {
		return nil
	}
	end := start + PageSize
	if end > len(s.employees) {
		end = len(s.employees)
	}

	out := make([]Employee, end-start)
	copy(out, s.employees[start:end])
	return out
}

func pageCount(n int) int {
	if n == 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

func clampPage(page, n int) int {
	if page < 1 {
		return 1
	}
	if max := pageCount(n); page > max {
		return max
	}
	return page
}

// IsDeleting reports whether a delete for the given employee is in flight
func (s *ListSync) IsDeleting(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleting[id]
}

// ApplyCreate folds a freshly created employee into the view. The new
// record is prepended, matching the newest-first server ordering, but
// only if it satisfies the active filters.
func (s *ListSync) ApplyCreate(e Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !filter.Matches(e.FilterRecord(), s.filters) {
		return
	}
	s.employees = append([]Employee{e}, s.employees...)
}

// ApplyUpdate folds an updated employee into the view. A record that no
// longer matches the filters is removed; one that newly matches is
// prepended; one already present is replaced in place.
func (s *ListSync) ApplyUpdate(e Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(e.ID)
	matches := filter.Matches(e.FilterRecord(), s.filters)

	switch {
	case !matches && idx >= 0:
		s.employees = append(s.employees[:idx], s.employees[idx+1:]...)
	case matches && idx < 0:
		s.employees = append([]Employee{e}, s.employees...)
	case matches && idx >= 0:
		s.employees[idx] = e
	}
	s.page = clampPage(s.page, len(s.employees))
}

// Delete removes the employee optimistically, then issues the delete. On
// failure the record is restored at its original position and the error
// surfaced; on success the page is clamped in case the last row of the
// final page went away.
func (s *ListSync) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()

	idx := s.indexOfLocked(id)
	if idx < 0 || s.deleting[id] {
		s.mu.Unlock()
		return nil
	}

	removed := s.employees[idx]
	s.employees = append(s.employees[:idx], s.employees[idx+1:]...)
	s.deleting[id] = true
	s.errMsg = ""
	s.mu.Unlock()

	err := s.api.DeleteEmployee(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deleting, id)

	if err != nil {
		// Roll back at the original position
		pos := idx
		if pos > len(s.employees) {
			pos = len(s.employees)
		}
		s.employees = append(s.employees[:pos], append([]Employee{removed}, s.employees[pos:]...)...)

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			s.errMsg = apiErr.Message
		} else {
			s.errMsg = "Failed to delete employee"
		}
		return err
	}

	s.page = clampPage(s.page, len(s.employees))
	return nil
}

// Close cancels any in-flight fetch and pending debounce timer
func (s *ListSync) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	// Invalidate any reply still in flight
	s.seq++
}

func (s *ListSync) indexOfLocked(id int64) int {
	for i := range s.employees {
		if s.employees[i].ID == id {
			return i
		}
	}
	return -1
}
