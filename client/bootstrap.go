package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/idms/ems/pkg/filter"
)

// Session holds everything an application needs after startup: the
// authenticated user and a synchronizer primed with the first page of
// employees.
type Session struct {
	User *User
	List *ListSync
}

// LoadInitial verifies the stored credential and fetches the unfiltered
// employee list in parallel, then returns a primed ListSync. If either
// call fails the whole bootstrap fails, so a stale token surfaces as a
// single error instead of a half-loaded view.
func LoadInitial(ctx context.Context, api *Client, opts ...SyncOption) (*Session, error) {
	var (
		user *User
		list *EmployeeList
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := api.Me(gctx)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	g.Go(func() error {
		l, err := api.ListEmployees(gctx, filter.Filters{})
		if err != nil {
			return err
		}
		list = l
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sync := NewListSync(api, opts...)
	sync.mu.Lock()
	sync.employees = list.Employees
	if !list.Meta.IsZero() {
		sync.meta = list.Meta
	}
	sync.mu.Unlock()

	return &Session{User: user, List: sync}, nil
}
