package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListVouchersFilter narrows a voucher listing. Zero values mean "no filter"
// for the optional fields; CompanyID is always required.
type ListVouchersFilter struct {
	CompanyID   string
	LocationID  string
	VoucherType domain.VoucherType
	DateFrom    *time.Time
	DateTo      *time.Time
}

// VoucherReader defines read operations for voucher data.
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher header by its unique identifier.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// FindLinesByVoucherID retrieves all lines of a voucher in insertion order.
	FindLinesByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherLine, error)

	// ListVouchers retrieves a filtered, token-paginated list of voucher headers.
	ListVouchers(ctx context.Context, filter ListVouchersFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error)
}

// VoucherWriter defines write operations for voucher data. Each method is one
// atomic write; multi-write sequences (reversal) go through WithTx.
type VoucherWriter interface {
	// SaveVoucher persists a new voucher header and its lines atomically.
	SaveVoucher(ctx context.Context, voucher domain.Voucher, lines []domain.VoucherLine) error

	// ReplaceVoucherLines swaps the full line set of a DRAFT voucher and updates its
	// total, guarded by the expected header version. Returns apperrors.ErrConflict
	// when the version check fails.
	ReplaceVoucherLines(ctx context.Context, voucherID string, expectedVersion int64, lines []domain.VoucherLine, totalAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error

	// MarkVoucherPosted transitions a DRAFT voucher to POSTED with its allocated
	// number, guarded by status and the expected header version.
	MarkVoucherPosted(ctx context.Context, voucherID string, expectedVersion int64, voucherNumber string, postedBy string, postedAt time.Time) error

	// MarkVoucherReversed transitions a POSTED voucher to REVERSED and records the
	// id of the reversal voucher. Fails if the voucher is not POSTED or is already
	// linked to a reversal.
	MarkVoucherReversed(ctx context.Context, voucherID string, reversedByID string, updatedBy string, updatedAt time.Time) error

	// UpdateVoucherNotes updates the notes field only; permitted in any status.
	UpdateVoucherNotes(ctx context.Context, voucherID string, notes string, updatedBy string, updatedAt time.Time) error
}

// VoucherRepository combines voucher reads and writes with transactional grouping.
type VoucherRepository interface {
	VoucherReader
	VoucherWriter

	// WithTx runs fn inside one database transaction; every write performed through
	// the VoucherWriter passed to fn commits or rolls back as a unit.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx VoucherWriter) error) error
}
