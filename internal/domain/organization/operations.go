package organization

import (
	"context"

	"hermes/internal/core/guard"
	"hermes/internal/core/notify"
)

// Operations runs every organization call through a guard with the
// Propagate policy and degrades every failure to a safe default, so nothing
// escapes to the view layer except the notifications the guard emitted.
type Operations struct {
	repo  Repository
	guard *guard.Guard
}

// NewOperations creates Operations reporting to sink. The sink is required;
// a nil sink makes the first call panic with a configuration error.
func NewOperations(repo Repository, sink notify.Sink, opts ...guard.Option) *Operations {
	opts = append([]guard.Option{guard.WithSink(sink)}, opts...)
	return &Operations{
		repo:  repo,
		guard: guard.New(guard.Propagate, opts...),
	}
}

// FindAll returns a page of organizations, or an empty slice if the call failed.
func (o *Operations) FindAll(ctx context.Context, offset, limit int) []*Organization {
	out := guard.Run(ctx, o.guard, func(ctx context.Context) ([]*Organization, error) {
		return o.repo.FindAll(ctx, offset, limit)
	})
	if !out.OK() || out.Value == nil {
		return []*Organization{}
	}
	return out.Value
}

// FindByID returns the organization with id.
//
// Not found and failed calls both yield (nil, false). Only the latter has
// produced a notification.
func (o *Operations) FindByID(ctx context.Context, id string) (*Organization, bool) {
	out := guard.Run(ctx, o.guard, func(ctx context.Context) (*Organization, error) {
		return o.repo.FindByID(ctx, id)
	})
	if !out.OK() {
		return nil, false
	}
	return out.Value, out.Value != nil
}

// Count returns the number of organizations, or 0 if the call failed.
func (o *Operations) Count(ctx context.Context) int {
	n, err := guard.Execute(ctx, o.guard, o.repo.Count)
	if err != nil {
		return 0
	}
	return n
}

// Save creates org. It reports whether the directory accepted it.
func (o *Operations) Save(ctx context.Context, org *Organization) bool {
	return o.mutate(ctx, org, o.repo.Save)
}

// Update stores changes to org. It reports whether the directory accepted them.
func (o *Operations) Update(ctx context.Context, org *Organization) bool {
	return o.mutate(ctx, org, o.repo.Update)
}

// Delete removes org. It reports whether the directory removed it.
func (o *Operations) Delete(ctx context.Context, org *Organization) bool {
	return o.mutate(ctx, org, o.repo.Delete)
}

func (o *Operations) mutate(ctx context.Context, org *Organization, call func(context.Context, *Organization) error) bool {
	out := guard.Do(ctx, o.guard, func(ctx context.Context) error {
		return call(ctx, org)
	})
	return out.OK()
}
