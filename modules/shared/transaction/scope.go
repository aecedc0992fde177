// Package transaction defines the unit-of-work boundary used by command handlers.
package transaction

import "context"

// Scope runs fn as one unit of work. Implementations commit when fn returns
// nil and roll back otherwise. The ctx passed to fn carries whatever the
// storage adapter needs to join the unit of work.
type Scope interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// ScopeFunc adapts a function to Scope.
type ScopeFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func (f ScopeFunc) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// Immediate is a Scope without rollback, for storage whose writes are
// individually atomic (the in-memory repository).
var Immediate Scope = ScopeFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})

// ExecuteWithResult runs fn within scope and returns its result.
func ExecuteWithResult[T any](ctx context.Context, scope Scope, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := scope.Execute(ctx, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	return result, err
}
