package repositories

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// SequenceRepository backs the voucher number allocator with a durable,
// atomically incremented counter per scope.
type SequenceRepository interface {
	// NextSequenceValue increments and returns the counter for a scope. The
	// increment must be atomic: two concurrent calls for the same scope never
	// observe the same value. Values handed to a posting that later fails are
	// burned, not reused.
	NextSequenceValue(ctx context.Context, scope domain.SequenceScope) (int64, error)
}
