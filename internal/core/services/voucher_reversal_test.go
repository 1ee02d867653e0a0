package services_test

import (
	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// postedVoucher is a persisted POSTED header ready to be reversed.
func (s *VoucherServiceTestSuite) postedVoucher(voucherID string) *domain.Voucher {
	v := s.draftVoucher(voucherID)
	v.Status = domain.Posted
	v.VoucherNumber = "JV-202607-000011"
	v.VoucherDate = s.fixedNow.AddDate(0, -1, 0)
	v.Version = 4
	return v
}

func (s *VoucherServiceTestSuite) TestReverseVoucher_Success() {
	voucherID := uuid.NewString()
	original := s.postedVoucher(voucherID)
	originalLines := s.linesFor(voucherID)
	scope := domain.SequenceScope{
		CompanyID:   s.companyID,
		LocationID:  s.locationID,
		VoucherType: domain.JournalVoucher,
		PeriodCode:  "2026-08", // the reversal is dated today, not the original's period
	}

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(original, nil).Once()
	s.mockRepo.On("FindLinesByVoucherID", s.ctx, voucherID).Return(originalLines, nil).Once()
	s.expectCurrencyLookup()
	s.mockPeriods.On("ResolveForDate", s.ctx, s.companyID, mock.Anything, s.userID).
		Return(&domain.FiscalPeriod{PeriodCode: "2026-08", CompanyID: s.companyID, Status: domain.PeriodOpen}, nil).Once()
	s.mockSequence.On("Next", s.ctx, scope).Return("JV-202608-000099", nil).Once()
	s.mockRepo.On("WithTx", s.ctx, mock.Anything).Return(nil).Once()
	s.mockRepo.On("SaveVoucher", s.ctx, mock.MatchedBy(func(v domain.Voucher) bool {
		return v.Status == domain.Posted &&
			v.VoucherNumber == "JV-202608-000099" &&
			v.ReversalOfID != nil && *v.ReversalOfID == voucherID
	}), mock.Anything).Return(nil).Once()
	s.mockRepo.On("MarkVoucherReversed", s.ctx, voucherID, mock.Anything, s.userID, s.fixedNow).Return(nil).Once()

	reversal, err := s.service.ReverseVoucher(s.ctx, voucherID, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(reversal)
	s.NotEqual(voucherID, reversal.VoucherID)
	s.Equal(domain.Posted, reversal.Status)
	s.Equal("JV-202608-000099", reversal.VoucherNumber)
	s.Require().NotNil(reversal.ReversalOfID)
	s.Equal(voucherID, *reversal.ReversalOfID)
	s.True(reversal.VoucherDate.Equal(s.fixedNow), "reversal is dated today")

	// Every line flips sides; dimensions and amounts carry over.
	s.Require().Len(reversal.Lines, 2)
	s.Equal(originalLines[0].AccountID, reversal.Lines[0].AccountID)
	s.True(reversal.Lines[0].Credit.Equal(originalLines[0].Debit))
	s.True(reversal.Lines[0].Debit.Equal(originalLines[0].Credit))
	s.True(reversal.Lines[1].Debit.Equal(originalLines[1].Credit))
	s.True(reversal.Lines[1].Credit.Equal(originalLines[1].Debit))
	s.NotEqual(originalLines[0].LineID, reversal.Lines[0].LineID)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestReverseVoucher_PreservesDimensions() {
	voucherID := uuid.NewString()
	original := s.postedVoucher(voucherID)
	costCenter := uuid.NewString()
	department := uuid.NewString()
	originalLines := []domain.VoucherLine{
		{
			LineID:       uuid.NewString(),
			VoucherID:    voucherID,
			AccountID:    s.expenseAccount.AccountID,
			CostCenterID: &costCenter,
			Debit:        decimal.NewFromInt(60),
		},
		{
			LineID:       uuid.NewString(),
			VoucherID:    voucherID,
			AccountID:    s.expenseAccount.AccountID,
			DepartmentID: &department,
			Debit:        decimal.NewFromInt(40),
		},
		{
			LineID:    uuid.NewString(),
			VoucherID: voucherID,
			AccountID: s.cashAccount.AccountID,
			Credit:    decimal.NewFromInt(100),
		},
	}

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(original, nil).Once()
	s.mockRepo.On("FindLinesByVoucherID", s.ctx, voucherID).Return(originalLines, nil).Once()
	s.expectCurrencyLookup()
	s.mockPeriods.On("ResolveForDate", s.ctx, s.companyID, mock.Anything, s.userID).
		Return(&domain.FiscalPeriod{PeriodCode: "2026-08", CompanyID: s.companyID, Status: domain.PeriodOpen}, nil).Once()
	s.mockSequence.On("Next", s.ctx, mock.Anything).Return("JV-202608-000100", nil).Once()
	s.mockRepo.On("WithTx", s.ctx, mock.Anything).Return(nil).Once()
	s.mockRepo.On("SaveVoucher", s.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockRepo.On("MarkVoucherReversed", s.ctx, voucherID, mock.Anything, s.userID, s.fixedNow).Return(nil).Once()

	reversal, err := s.service.ReverseVoucher(s.ctx, voucherID, s.userID)

	s.Require().NoError(err)
	s.Require().Len(reversal.Lines, 3)
	s.True(reversal.TotalAmount.Equal(original.TotalAmount))
	for i, line := range reversal.Lines {
		s.Equal(originalLines[i].AccountID, line.AccountID)
		s.Equal(originalLines[i].CostCenterID, line.CostCenterID)
		s.Equal(originalLines[i].DepartmentID, line.DepartmentID)
		s.True(line.Debit.Equal(originalLines[i].Credit))
		s.True(line.Credit.Equal(originalLines[i].Debit))
	}
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestReverseVoucher_Draft() {
	voucherID := uuid.NewString()
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(s.draftVoucher(voucherID), nil).Once()

	reversal, err := s.service.ReverseVoucher(s.ctx, voucherID, s.userID)

	s.Require().ErrorIs(err, services.ErrNotPosted)
	s.Nil(reversal)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestReverseVoucher_AlreadyReversed() {
	voucherID := uuid.NewString()
	reversedByID := uuid.NewString()
	original := s.postedVoucher(voucherID)
	original.Status = domain.Reversed
	original.ReversedByID = &reversedByID
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(original, nil).Once()

	reversal, err := s.service.ReverseVoucher(s.ctx, voucherID, s.userID)

	s.Require().ErrorIs(err, services.ErrAlreadyReversed)
	s.Nil(reversal)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestReverseVoucher_LinkedButNotYetReversed() {
	// A POSTED original already linked to a reversal is just as final.
	voucherID := uuid.NewString()
	reversedByID := uuid.NewString()
	original := s.postedVoucher(voucherID)
	original.ReversedByID = &reversedByID
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(original, nil).Once()

	_, err := s.service.ReverseVoucher(s.ctx, voucherID, s.userID)

	s.Require().ErrorIs(err, services.ErrAlreadyReversed)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestReverseVoucher_OfAReversal() {
	voucherID := uuid.NewString()
	originalID := uuid.NewString()
	reversal := s.postedVoucher(voucherID)
	reversal.ReversalOfID = &originalID
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(reversal, nil).Once()

	result, err := s.service.ReverseVoucher(s.ctx, voucherID, s.userID)

	s.Require().ErrorIs(err, services.ErrAlreadyReversed)
	s.Nil(result)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestReverseVoucher_TxFailureLeavesOriginalUntouched() {
	voucherID := uuid.NewString()
	original := s.postedVoucher(voucherID)
	originalLines := s.linesFor(voucherID)

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(original, nil).Once()
	s.mockRepo.On("FindLinesByVoucherID", s.ctx, voucherID).Return(originalLines, nil).Once()
	s.expectCurrencyLookup()
	s.mockPeriods.On("ResolveForDate", s.ctx, s.companyID, mock.Anything, s.userID).
		Return(&domain.FiscalPeriod{PeriodCode: "2026-08", CompanyID: s.companyID, Status: domain.PeriodOpen}, nil).Once()
	s.mockSequence.On("Next", s.ctx, mock.Anything).Return("JV-202608-000099", nil).Once()
	s.mockRepo.On("WithTx", s.ctx, mock.Anything).Return(apperrors.ErrConflict).Once()

	reversal, err := s.service.ReverseVoucher(s.ctx, voucherID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
	s.Nil(reversal)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestDuplicateVoucher_ResetsIdentity() {
	voucherID := uuid.NewString()
	reversedByID := uuid.NewString()
	source := s.postedVoucher(voucherID)
	source.Status = domain.Reversed
	source.ReversedByID = &reversedByID
	source.Notes = "rent accrual"
	sourceLines := s.linesFor(voucherID)

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(source, nil).Once()
	s.mockRepo.On("FindLinesByVoucherID", s.ctx, voucherID).Return(sourceLines, nil).Once()

	candidate, candidateLines, err := s.service.DuplicateVoucher(s.ctx, voucherID, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(candidate)
	s.NotEqual(voucherID, candidate.VoucherID)
	s.Equal(domain.Draft, candidate.Status)
	s.Empty(candidate.VoucherNumber)
	s.Nil(candidate.ReversalOfID)
	s.Nil(candidate.ReversedByID)
	s.Equal(int64(0), candidate.Version)
	s.True(candidate.VoucherDate.Equal(s.fixedNow), "duplicate is dated today, not the source date")
	s.Equal("rent accrual", candidate.Notes)
	s.True(candidate.TotalAmount.Equal(source.TotalAmount))

	s.Require().Len(candidateLines, 2)
	for i := range candidateLines {
		s.Equal(sourceLines[i].AccountID, candidateLines[i].AccountID)
		s.True(candidateLines[i].Debit.Equal(sourceLines[i].Debit), "duplication keeps sides as-is")
		s.True(candidateLines[i].Credit.Equal(sourceLines[i].Credit))
		s.NotEqual(sourceLines[i].LineID, candidateLines[i].LineID)
		s.Equal(candidate.VoucherID, candidateLines[i].VoucherID)
	}
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestDuplicateVoucher_FromDraft() {
	voucherID := uuid.NewString()
	source := s.draftVoucher(voucherID)
	sourceLines := s.linesFor(voucherID)
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(source, nil).Once()
	s.mockRepo.On("FindLinesByVoucherID", s.ctx, voucherID).Return(sourceLines, nil).Once()

	candidate, candidateLines, err := s.service.DuplicateVoucher(s.ctx, voucherID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.Draft, candidate.Status)
	s.Len(candidateLines, 2)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestDuplicateVoucher_NotFound() {
	voucherID := uuid.NewString()
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(nil, apperrors.ErrNotFound).Once()

	candidate, lines, err := s.service.DuplicateVoucher(s.ctx, voucherID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(candidate)
	s.Nil(lines)
	s.assertMocks()
}
