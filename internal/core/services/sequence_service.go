package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
)

// sequenceService issues voucher numbers from a durable per-scope counter.
// Allocation runs outside the posting transaction: a number handed to a Post
// that later fails is burned, never reused. That keeps the allocator free of
// long-held locks under contention, at the price of gaps in the sequence.
type sequenceService struct {
	seqRepo   portsrepo.SequenceRepository
	periodSvc portssvc.FiscalPeriodService
}

// NewSequenceService creates the voucher number allocator.
func NewSequenceService(seqRepo portsrepo.SequenceRepository, periodSvc portssvc.FiscalPeriodService) portssvc.SequenceAllocator {
	return &sequenceService{seqRepo: seqRepo, periodSvc: periodSvc}
}

var _ portssvc.SequenceAllocator = (*sequenceService)(nil)

// Next allocates the next number for a scope. Numbers for the same scope are
// strictly increasing; different scopes are fully independent.
func (s *sequenceService) Next(ctx context.Context, scope domain.SequenceScope) (string, error) {
	if err := s.periodSvc.EnsureOpenForPosting(ctx, scope.CompanyID, scope.PeriodCode); err != nil {
		return "", err
	}

	value, err := s.seqRepo.NextSequenceValue(ctx, scope)
	if err != nil {
		return "", fmt.Errorf("failed to allocate sequence value: %w", err)
	}

	return FormatVoucherNumber(scope, value), nil
}

// FormatVoucherNumber renders an allocated counter value as a display number,
// e.g. JV-202608-000042.
func FormatVoucherNumber(scope domain.SequenceScope, value int64) string {
	periodPart := strings.ReplaceAll(scope.PeriodCode, "-", "")
	return fmt.Sprintf("%s-%s-%06d", scope.VoucherType.NumberPrefix(), periodPart, value)
}
