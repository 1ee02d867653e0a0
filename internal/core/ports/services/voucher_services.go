package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// VoucherService is the facade over the double-entry voucher core: draft
// construction, posting, reversal, duplication and the two permitted edits.
type VoucherService interface {
	// CreateDraft builds, validates and persists a new DRAFT voucher.
	CreateDraft(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error)

	// GetVoucherByID retrieves a voucher header with its lines populated.
	GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListVouchers retrieves a filtered, token-paginated list of voucher headers.
	ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)

	// PostVoucher re-validates a DRAFT voucher, allocates its number and
	// transitions it to POSTED in one atomic write.
	PostVoucher(ctx context.Context, voucherID string, actorID string) (*domain.Voucher, error)

	// ReverseVoucher derives the inverse of a POSTED voucher, posts it, and marks
	// the original REVERSED, all in one transaction. Returns the reversal voucher.
	ReverseVoucher(ctx context.Context, voucherID string, actorID string) (*domain.Voucher, error)

	// DuplicateVoucher derives an unsaved DRAFT candidate from any voucher.
	// The caller persists it through CreateDraft like a fresh voucher.
	DuplicateVoucher(ctx context.Context, voucherID string, actorID string) (*domain.Voucher, []domain.VoucherLine, error)

	// EditNotes updates the notes field; permitted in any status.
	EditNotes(ctx context.Context, voucherID string, notes string, actorID string) error

	// EditLines replaces the line set of a DRAFT voucher.
	EditLines(ctx context.Context, voucherID string, req dto.UpdateVoucherLinesRequest, actorID string) error
}

// SequenceAllocator issues unique, strictly increasing voucher numbers per scope.
type SequenceAllocator interface {
	// Next allocates the next number for a scope, formatted for display.
	// Fails with ErrScopeClosed when the scope's fiscal period is closed.
	Next(ctx context.Context, scope domain.SequenceScope) (string, error)
}
