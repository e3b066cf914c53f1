package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations. The balance debit
// and payment row write of a charge must run inside one Do scope.
type UnitOfWork interface {
	// Do executes the given function within a transaction scope
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
