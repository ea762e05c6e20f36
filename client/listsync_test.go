package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idms/ems/pkg/filter"
)

type fakeDirectory struct {
	mu          sync.Mutex
	listCalls   int
	lastFilters filter.Filters
	listFn      func(ctx context.Context, f filter.Filters) (*EmployeeList, error)

	deleteErr error
	deleted   []int64
}

func (f *fakeDirectory) ListEmployees(ctx context.Context, fl filter.Filters) (*EmployeeList, error) {
	f.mu.Lock()
	f.listCalls++
	f.lastFilters = fl
	fn := f.listFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, fl)
	}
	return &EmployeeList{}, nil
}

func (f *fakeDirectory) DeleteEmployee(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDirectory) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeDirectory) filters() filter.Filters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastFilters
}

func makeEmployees(n int) []Employee {
	out := make([]Employee, n)
	for i := range out {
		out[i] = Employee{
			ID:         int64(i + 1),
			FullName:   fmt.Sprintf("Employee %d", i+1),
			Email:      fmt.Sprintf("employee%d@example.com", i+1),
			Department: "Engineering",
		}
	}
	return out
}

// seed installs a list without going through the network path
func seed(s *ListSync, employees []Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = employees
}

func TestRefreshPopulatesList(t *testing.T) {
	api := &fakeDirectory{listFn: func(context.Context, filter.Filters) (*EmployeeList, error) {
		return &EmployeeList{
			Employees: makeEmployees(3),
			Meta:      Meta{Departments: []string{"Engineering"}},
		}, nil
	}}
	s := NewListSync(api)
	defer s.Close()

	s.Refresh()

	require.Eventually(t, func() bool { return len(s.Employees()) == 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, s.Err())
	assert.Equal(t, []string{"Engineering"}, s.Meta().Departments)
}

func TestSetFiltersDebouncesAndCoalesces(t *testing.T) {
	api := &fakeDirectory{}
	s := NewListSync(api, WithDebounce(30*time.Millisecond))
	defer s.Close()

	s.SetFilters(filter.Filters{Search: "a"})
	s.SetFilters(filter.Filters{Search: "ab"})
	s.SetFilters(filter.Filters{Search: "abc"})

	// Only the final filter state reaches the server
	require.Eventually(t, func() bool { return api.calls() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, filter.Filters{Search: "abc"}, api.filters())

	// And no further request sneaks in afterwards
	time.Sleep(3 * DefaultDebounce)
	assert.Equal(t, 1, api.calls())
}

func TestSetFiltersResetsPage(t *testing.T) {
	s := NewListSync(&fakeDirectory{}, WithDebounce(time.Hour))
	defer s.Close()

	seed(s, makeEmployees(30))
	s.SetPage(3)
	require.Equal(t, 3, s.Page())

	s.SetFilters(filter.Filters{Search: "x"})
	assert.Equal(t, 1, s.Page())
}

func TestStaleResponseIsDropped(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	call := 0
	var callMu sync.Mutex
	api := &fakeDirectory{}
	api.listFn = func(ctx context.Context, f filter.Filters) (*EmployeeList, error) {
		callMu.Lock()
		call++
		n := call
		callMu.Unlock()

		if n == 1 {
			close(firstStarted)
			<-releaseFirst
			// Slow first reply, should lose to the second
			return &EmployeeList{Employees: makeEmployees(1)}, nil
		}
		return &EmployeeList{Employees: makeEmployees(5)}, nil
	}

	s := NewListSync(api)
	defer s.Close()

	s.Refresh()
	<-firstStarted
	s.Refresh()

	require.Eventually(t, func() bool { return len(s.Employees()) == 5 }, 2*time.Second, 5*time.Millisecond)

	close(releaseFirst)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, s.Employees(), 5, "late first reply must not overwrite the newer one")
	assert.Empty(t, s.Err())
}

func TestCancelledFetchIsSilent(t *testing.T) {
	firstStarted := make(chan struct{})

	call := 0
	var callMu sync.Mutex
	api := &fakeDirectory{}
	api.listFn = func(ctx context.Context, f filter.Filters) (*EmployeeList, error) {
		callMu.Lock()
		call++
		n := call
		callMu.Unlock()

		if n == 1 {
			close(firstStarted)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &EmployeeList{Employees: makeEmployees(2)}, nil
	}

	s := NewListSync(api)
	defer s.Close()

	s.Refresh()
	<-firstStarted
	s.Refresh()

	require.Eventually(t, func() bool { return len(s.Employees()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, s.Err(), "cancellation is not an error")
}

func TestFetchErrorKeepsListAndSetsMessage(t *testing.T) {
	api := &fakeDirectory{}
	s := NewListSync(api)
	defer s.Close()

	seed(s, makeEmployees(4))

	api.listFn = func(context.Context, filter.Filters) (*EmployeeList, error) {
		return nil, errors.New("connection refused")
	}
	s.Refresh()

	require.Eventually(t, func() bool { return s.Err() != "" }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "Failed to load employees", s.Err())
	assert.Len(t, s.Employees(), 4, "stale data beats no data")

	// A server-provided message is surfaced verbatim
	api.mu.Lock()
	api.listFn = func(context.Context, filter.Filters) (*EmployeeList, error) {
		return nil, &APIError{Status: 500, Message: "Database is down"}
	}
	api.mu.Unlock()
	s.Refresh()

	require.Eventually(t, func() bool { return s.Err() == "Database is down" }, 2*time.Second, 5*time.Millisecond)
}

func TestErrorClearedOnNextAttempt(t *testing.T) {
	api := &fakeDirectory{}
	s := NewListSync(api)
	defer s.Close()

	api.listFn = func(context.Context, filter.Filters) (*EmployeeList, error) {
		return nil, errors.New("boom")
	}
	s.Refresh()
	require.Eventually(t, func() bool { return s.Err() != "" }, 2*time.Second, 5*time.Millisecond)

	api.mu.Lock()
	api.listFn = func(context.Context, filter.Filters) (*EmployeeList, error) {
		return &EmployeeList{Employees: makeEmployees(1)}, nil
	}
	api.mu.Unlock()
	s.Refresh()

	require.Eventually(t, func() bool { return s.Err() == "" && len(s.Employees()) == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestPagination(t *testing.T) {
	s := NewListSync(&fakeDirectory{})
	defer s.Close()

	seed(s, makeEmployees(23))

	assert.Equal(t, 3, s.PageCount())
	assert.Len(t, s.VisibleEmployees(), 11)

	s.SetPage(2)
	page2 := s.VisibleEmployees()
	require.Len(t, page2, 11)
	assert.Equal(t, int64(12), page2[0].ID)

	s.SetPage(3)
	assert.Len(t, s.VisibleEmployees(), 1)

	// Out-of-range pages clamp
	s.SetPage(99)
	assert.Equal(t, 3, s.Page())
	s.SetPage(0)
	assert.Equal(t, 1, s.Page())
}

func TestPaginationEmptyList(t *testing.T) {
	s := NewListSync(&fakeDirectory{})
	defer s.Close()

	assert.Equal(t, 1, s.PageCount())
	assert.Empty(t, s.VisibleEmployees())
	assert.Equal(t, 1, s.Page())
}

func TestMetaFallsBackToDefaults(t *testing.T) {
	s := NewListSync(&fakeDirectory{})
	defer s.Close()

	meta := s.Meta()
	assert.Equal(t, DefaultDepartments, meta.Departments)
	assert.Equal(t, DefaultDesignations, meta.Designations)
	assert.Equal(t, DefaultGenders, meta.Genders)
}

func TestApplyCreate(t *testing.T) {
	s := NewListSync(&fakeDirectory{})
	defer s.Close()

	seed(s, makeEmployees(2))

	// Matching record is prepended, newest first
	s.ApplyCreate(Employee{ID: 10, FullName: "New Hire", Department: "Engineering"})
	employees := s.Employees()
	require.Len(t, employees, 3)
	assert.Equal(t, int64(10), employees[0].ID)

	// Non-matching record stays out of the filtered view
	s.mu.Lock()
	s.filters = filter.Filters{Department: "Finance"}
	s.mu.Unlock()
	s.ApplyCreate(Employee{ID: 11, FullName: "Engineer", Department: "Engineering"})
	assert.Len(t, s.Employees(), 3)
}

func TestApplyUpdate(t *testing.T) {
	s := NewListSync(&fakeDirectory{})
	defer s.Close()

	seed(s, makeEmployees(3))
	s.mu.Lock()
	s.filters = filter.Filters{Department: "Engineering"}
	s.mu.Unlock()

	// In place: still matches
	s.ApplyUpdate(Employee{ID: 2, FullName: "Renamed", Department: "Engineering"})
	employees := s.Employees()
	require.Len(t, employees, 3)
	assert.Equal(t, "Renamed", employees[1].FullName)

	// Removed: no longer matches the department filter
	s.ApplyUpdate(Employee{ID: 2, FullName: "Renamed", Department: "Finance"})
	employees = s.Employees()
	require.Len(t, employees, 2)
	assert.Equal(t, []int64{1, 3}, []int64{employees[0].ID, employees[1].ID})

	// Prepended: starts matching again
	s.ApplyUpdate(Employee{ID: 2, FullName: "Renamed", Department: "Engineering"})
	employees = s.Employees()
	require.Len(t, employees, 3)
	assert.Equal(t, int64(2), employees[0].ID)
}

func TestDeleteOptimistic(t *testing.T) {
	api := &fakeDirectory{}
	s := NewListSync(api)
	defer s.Close()

	seed(s, makeEmployees(3))

	require.NoError(t, s.Delete(context.Background(), 2))
	employees := s.Employees()
	require.Len(t, employees, 2)
	assert.Equal(t, []int64{2}, api.deleted)
	assert.False(t, s.IsDeleting(2))
}

func TestDeleteRollbackRestoresPosition(t *testing.T) {
	api := &fakeDirectory{deleteErr: errors.New("boom")}
	s := NewListSync(api)
	defer s.Close()

	seed(s, makeEmployees(3))

	err := s.Delete(context.Background(), 2)
	require.Error(t, err)

	employees := s.Employees()
	require.Len(t, employees, 3)
	assert.Equal(t, int64(2), employees[1].ID, "restored at its original position")
	assert.Equal(t, "Failed to delete employee", s.Err())
	assert.False(t, s.IsDeleting(2))
}

func TestDeleteRollbackUsesServerMessage(t *testing.T) {
	api := &fakeDirectory{deleteErr: &APIError{Status: 404, Message: "Employee not found"}}
	s := NewListSync(api)
	defer s.Close()

	seed(s, makeEmployees(1))

	require.Error(t, s.Delete(context.Background(), 1))
	assert.Equal(t, "Employee not found", s.Err())
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	api := &fakeDirectory{}
	s := NewListSync(api)
	defer s.Close()

	seed(s, makeEmployees(2))

	require.NoError(t, s.Delete(context.Background(), 99))
	assert.Len(t, s.Employees(), 2)
	assert.Empty(t, api.deleted)
}

func TestDeleteClampsPage(t *testing.T) {
	api := &fakeDirectory{}
	s := NewListSync(api)
	defer s.Close()

	// 12 employees: two pages, the second holding a single row
	seed(s, makeEmployees(12))
	s.SetPage(2)

	require.NoError(t, s.Delete(context.Background(), 12))
	assert.Equal(t, 1, s.Page(), "page clamps when the last row of the final page goes away")
}
