package employee

import (
	"context"

	"hermes/internal/core/guard"
	"hermes/internal/core/notify"
	"hermes/internal/domain/organization"
)

// Operations runs every employee call through a guard with the Escalate
// policy: not found becomes apperror.CodeResourceNotFound, everything else
// apperror.CodeInternal.
//
// The public CRUD methods then swallow those signals as well and return
// defaults. Lookup is the only method that lets them through.
type Operations struct {
	repo  Repository
	guard *guard.Guard
}

// NewOperations creates Operations without a sink. AttachSink must be called
// before the first operation.
func NewOperations(repo Repository, opts ...guard.Option) *Operations {
	return &Operations{
		repo:  repo,
		guard: guard.New(guard.Escalate, opts...),
	}
}

// AttachSink sets the notification sink. Call it once, before first use.
func (o *Operations) AttachSink(sink notify.Sink) {
	o.guard.Attach(sink)
}

// Lookup returns the employee or the escalated error: apperror.CodeResourceNotFound
// when the directory has no such member, apperror.CodeInternal otherwise.
func (o *Operations) Lookup(ctx context.Context, org *organization.Organization, id string) (*Employee, error) {
	return guard.Execute(ctx, o.guard, func(ctx context.Context) (*Employee, error) {
		return o.repo.FindByID(ctx, org, id)
	})
}

// FindByID returns the employee with id in org, or (nil, false).
func (o *Operations) FindByID(ctx context.Context, org *organization.Organization, id string) (*Employee, bool) {
	emp, err := o.Lookup(ctx, org, id)
	if err != nil || emp == nil {
		return nil, false
	}
	return emp, true
}

// FindAll returns a page of org's employees, or an empty slice if the call failed.
func (o *Operations) FindAll(ctx context.Context, org *organization.Organization, offset, limit int) []*Employee {
	emps, err := guard.Execute(ctx, o.guard, func(ctx context.Context) ([]*Employee, error) {
		return o.repo.FindAll(ctx, org, offset, limit)
	})
	if err != nil || emps == nil {
		return []*Employee{}
	}
	return emps
}

// Count returns the number of employees in org, or 0 if the call failed.
func (o *Operations) Count(ctx context.Context, org *organization.Organization) int {
	n, err := guard.Execute(ctx, o.guard, func(ctx context.Context) (int, error) {
		return o.repo.Count(ctx, org)
	})
	if err != nil {
		return 0
	}
	return n
}

// Save creates emp in org. It reports whether the directory accepted it.
func (o *Operations) Save(ctx context.Context, org *organization.Organization, emp *Employee) bool {
	return o.mutate(ctx, org, emp, o.repo.Save)
}

// Update stores changes to emp. It reports whether the directory accepted them.
func (o *Operations) Update(ctx context.Context, org *organization.Organization, emp *Employee) bool {
	return o.mutate(ctx, org, emp, o.repo.Update)
}

// Delete removes emp from the directory. It reports whether it was removed.
func (o *Operations) Delete(ctx context.Context, org *organization.Organization, emp *Employee) bool {
	return o.mutate(ctx, org, emp, o.repo.Delete)
}

type mutation func(context.Context, *organization.Organization, *Employee) error

func (o *Operations) mutate(ctx context.Context, org *organization.Organization, emp *Employee, call mutation) bool {
	_, err := guard.Do(ctx, o.guard, func(ctx context.Context) error {
		return call(ctx, org, emp)
	}).Unwrap()
	return err == nil
}
