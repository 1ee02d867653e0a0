package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mocks ---

type MockVoucherRepository struct {
	mock.Mock
}

var _ portsrepo.VoucherRepository = (*MockVoucherRepository)(nil)

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindLinesByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherLine, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VoucherLine), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchers(ctx context.Context, filter portsrepo.ListVouchersFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Voucher), token, args.Error(2)
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher, lines []domain.VoucherLine) error {
	args := m.Called(ctx, voucher, lines)
	return args.Error(0)
}

func (m *MockVoucherRepository) ReplaceVoucherLines(ctx context.Context, voucherID string, expectedVersion int64, lines []domain.VoucherLine, totalAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, voucherID, expectedVersion, lines, totalAmount, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockVoucherRepository) MarkVoucherPosted(ctx context.Context, voucherID string, expectedVersion int64, voucherNumber string, postedBy string, postedAt time.Time) error {
	args := m.Called(ctx, voucherID, expectedVersion, voucherNumber, postedBy, postedAt)
	return args.Error(0)
}

func (m *MockVoucherRepository) MarkVoucherReversed(ctx context.Context, voucherID string, reversedByID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, voucherID, reversedByID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockVoucherRepository) UpdateVoucherNotes(ctx context.Context, voucherID string, notes string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, voucherID, notes, updatedBy, updatedAt)
	return args.Error(0)
}

// WithTx runs fn against the mock itself, so per-write expectations apply
// inside the transaction too.
func (m *MockVoucherRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.VoucherWriter) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m)
}

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountService = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	args := m.Called(ctx, accountID, actorID)
	return args.Error(0)
}

type MockCurrencyService struct {
	mock.Mock
}

var _ portssvc.CurrencyService = (*MockCurrencyService)(nil)

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

type MockFiscalPeriodService struct {
	mock.Mock
}

var _ portssvc.FiscalPeriodService = (*MockFiscalPeriodService)(nil)

func (m *MockFiscalPeriodService) ResolveForDate(ctx context.Context, companyID string, date time.Time, actorID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, date, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) EnsureOpenForPosting(ctx context.Context, companyID string, periodCode string) error {
	args := m.Called(ctx, companyID, periodCode)
	return args.Error(0)
}

func (m *MockFiscalPeriodService) ClosePeriod(ctx context.Context, companyID string, periodCode string, actorID string) error {
	args := m.Called(ctx, companyID, periodCode, actorID)
	return args.Error(0)
}

func (m *MockFiscalPeriodService) ReopenPeriod(ctx context.Context, companyID string, periodCode string, actorID string) error {
	args := m.Called(ctx, companyID, periodCode, actorID)
	return args.Error(0)
}

func (m *MockFiscalPeriodService) ListPeriods(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

type MockSequenceAllocator struct {
	mock.Mock
}

var _ portssvc.SequenceAllocator = (*MockSequenceAllocator)(nil)

func (m *MockSequenceAllocator) Next(ctx context.Context, scope domain.SequenceScope) (string, error) {
	args := m.Called(ctx, scope)
	return args.String(0), args.Error(1)
}

// clockAware is implemented by services whose clock tests may pin.
type clockAware interface {
	WithNow(now func() time.Time)
}

// --- Test Suite ---

type VoucherServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockVoucherRepository
	mockAccounts *MockAccountService
	mockCurrency *MockCurrencyService
	mockPeriods  *MockFiscalPeriodService
	mockSequence *MockSequenceAllocator
	service      portssvc.VoucherService
	ctx          context.Context

	fixedNow   time.Time
	companyID  string
	locationID string
	userID     string

	cashAccount    domain.Account
	revenueAccount domain.Account
	expenseAccount domain.Account
	payableAccount domain.Account
	usd            domain.Currency
}

func (s *VoucherServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockVoucherRepository)
	s.mockAccounts = new(MockAccountService)
	s.mockCurrency = new(MockCurrencyService)
	s.mockPeriods = new(MockFiscalPeriodService)
	s.mockSequence = new(MockSequenceAllocator)
	s.ctx = context.Background()

	s.fixedNow = time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	s.companyID = uuid.NewString()
	s.locationID = uuid.NewString()
	s.userID = uuid.NewString()

	newAccount := func(accType domain.AccountType, code string) domain.Account {
		return domain.Account{
			AccountID:    uuid.NewString(),
			CompanyID:    s.companyID,
			Code:         code,
			Name:         code,
			AccountType:  accType,
			CurrencyCode: "USD",
			IsActive:     true,
		}
	}
	s.cashAccount = newAccount(domain.Asset, "1000")
	s.payableAccount = newAccount(domain.Liability, "2000")
	s.revenueAccount = newAccount(domain.Revenue, "4000")
	s.expenseAccount = newAccount(domain.Expense, "5000")
	s.usd = domain.Currency{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2}

	svc := services.NewVoucherService(s.mockRepo, s.mockAccounts, s.mockCurrency, s.mockPeriods, s.mockSequence)
	svc.(clockAware).WithNow(func() time.Time { return s.fixedNow })
	s.service = svc
}

func (s *VoucherServiceTestSuite) assertMocks() {
	s.mockRepo.AssertExpectations(s.T())
	s.mockAccounts.AssertExpectations(s.T())
	s.mockCurrency.AssertExpectations(s.T())
	s.mockPeriods.AssertExpectations(s.T())
	s.mockSequence.AssertExpectations(s.T())
}

// balancedRequest debits cash and credits revenue for the same amount.
func (s *VoucherServiceTestSuite) balancedRequest(amount decimal.Decimal) dto.CreateVoucherRequest {
	return dto.CreateVoucherRequest{
		VoucherType:  domain.JournalVoucher,
		CompanyID:    s.companyID,
		LocationID:   s.locationID,
		CurrencyCode: "USD",
		Notes:        "monthly revenue recognition",
		Lines: []dto.VoucherLineInput{
			{AccountID: s.cashAccount.AccountID, Debit: amount},
			{AccountID: s.revenueAccount.AccountID, Credit: amount},
		},
	}
}

func (s *VoucherServiceTestSuite) accountMap(accounts ...domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		out[acc.AccountID] = acc
	}
	return out
}

func (s *VoucherServiceTestSuite) expectAccountLookup(accounts ...domain.Account) {
	s.mockAccounts.On("GetAccountsByIDs", s.ctx, mock.Anything).Return(s.accountMap(accounts...), nil).Once()
}

func (s *VoucherServiceTestSuite) expectCurrencyLookup() {
	s.mockCurrency.On("GetCurrencyByCode", s.ctx, "USD").Return(&s.usd, nil).Once()
}

// draftVoucher is a persisted-looking DRAFT header at version 3.
func (s *VoucherServiceTestSuite) draftVoucher(voucherID string) *domain.Voucher {
	return &domain.Voucher{
		VoucherID:    voucherID,
		VoucherType:  domain.JournalVoucher,
		CompanyID:    s.companyID,
		LocationID:   s.locationID,
		VoucherDate:  s.fixedNow,
		CurrencyCode: "USD",
		ExchangeRate: decimal.NewFromInt(1),
		Status:       domain.Draft,
		TotalAmount:  decimal.NewFromInt(100),
		Version:      3,
		AuditFields: domain.AuditFields{
			CreatedAt: s.fixedNow.Add(-time.Hour),
			CreatedBy: s.userID,
		},
	}
}

// linesFor debits cash 100 and credits revenue 100 under the given voucher.
func (s *VoucherServiceTestSuite) linesFor(voucherID string) []domain.VoucherLine {
	return []domain.VoucherLine{
		{
			LineID:    uuid.NewString(),
			VoucherID: voucherID,
			AccountID: s.cashAccount.AccountID,
			Debit:     decimal.NewFromInt(100),
			Credit:    decimal.Zero,
		},
		{
			LineID:    uuid.NewString(),
			VoucherID: voucherID,
			AccountID: s.revenueAccount.AccountID,
			Debit:     decimal.Zero,
			Credit:    decimal.NewFromInt(100),
		},
	}
}

// --- CreateDraft ---

func (s *VoucherServiceTestSuite) TestCreateDraft_Success() {
	req := s.balancedRequest(decimal.NewFromInt(150))
	s.expectAccountLookup(s.cashAccount, s.revenueAccount)
	s.expectCurrencyLookup()
	s.mockRepo.On("SaveVoucher", s.ctx, mock.MatchedBy(func(v domain.Voucher) bool {
		return v.Status == domain.Draft && v.VoucherNumber == "" && v.Version == 0
	}), mock.Anything).Return(nil).Once()

	voucher, err := s.service.CreateDraft(s.ctx, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(voucher)
	s.NotEmpty(voucher.VoucherID)
	s.Equal(domain.Draft, voucher.Status)
	s.Empty(voucher.VoucherNumber)
	s.True(voucher.TotalAmount.Equal(decimal.NewFromInt(150)))
	s.True(voucher.ExchangeRate.Equal(decimal.NewFromInt(1)))
	s.True(voucher.VoucherDate.Equal(s.fixedNow), "voucher date defaults to today")
	s.Equal(s.userID, voucher.CreatedBy)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestCreateDraft_Imbalanced() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Lines[1].Credit = decimal.RequireFromString("99.98")
	s.expectAccountLookup(s.cashAccount, s.revenueAccount)
	s.expectCurrencyLookup()

	voucher, err := s.service.CreateDraft(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(voucher)
	var imbalanced *services.ImbalancedEntryError
	s.Require().ErrorAs(err, &imbalanced)
	s.True(imbalanced.DebitTotal.Equal(decimal.NewFromInt(100)))
	s.True(imbalanced.CreditTotal.Equal(decimal.RequireFromString("99.98")))
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestCreateDraft_WithinTolerance() {
	// One cent of rounding drift is accepted for a precision-2 currency.
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Lines[1].Credit = decimal.RequireFromString("99.99")
	s.expectAccountLookup(s.cashAccount, s.revenueAccount)
	s.expectCurrencyLookup()
	s.mockRepo.On("SaveVoucher", s.ctx, mock.Anything, mock.Anything).Return(nil).Once()

	voucher, err := s.service.CreateDraft(s.ctx, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(voucher)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestCreateDraft_SingleLine() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Lines = req.Lines[:1]

	voucher, err := s.service.CreateDraft(s.ctx, req, s.userID)

	s.Require().ErrorIs(err, services.ErrInsufficientLines)
	s.Nil(voucher)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestCreateDraft_LineWithBothSides() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Lines[0].Credit = decimal.NewFromInt(5)

	voucher, err := s.service.CreateDraft(s.ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(voucher)
	var invalid *services.InvalidLineError
	s.Require().ErrorAs(err, &invalid)
	s.Equal(0, invalid.Index)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestCreateDraft_UnknownVoucherType() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.VoucherType = domain.VoucherType("INVOICE")

	voucher, err := s.service.CreateDraft(s.ctx, req, s.userID)

	s.Require().ErrorIs(err, services.ErrMalformedInput)
	s.Nil(voucher)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestCreateDraft_InactiveAccount() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	inactive := s.revenueAccount
	inactive.IsActive = false
	s.expectAccountLookup(s.cashAccount, inactive)

	voucher, err := s.service.CreateDraft(s.ctx, req, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(voucher)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestCreateDraft_UnknownAccount() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	s.expectAccountLookup(s.cashAccount) // revenue account missing

	voucher, err := s.service.CreateDraft(s.ctx, req, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(voucher)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestCreateDraft_AccountCurrencyMismatch() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	euroAccount := s.revenueAccount
	euroAccount.CurrencyCode = "EUR"
	s.expectAccountLookup(s.cashAccount, euroAccount)

	voucher, err := s.service.CreateDraft(s.ctx, req, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(voucher)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestCreateDraft_NegativeExchangeRate() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	rate := decimal.NewFromInt(-2)
	req.ExchangeRate = &rate

	voucher, err := s.service.CreateDraft(s.ctx, req, s.userID)

	s.Require().ErrorIs(err, services.ErrMalformedInput)
	s.Nil(voucher)
	s.assertMocks()
}

// --- PostVoucher ---

func (s *VoucherServiceTestSuite) TestPostVoucher_Success() {
	voucherID := uuid.NewString()
	draft := s.draftVoucher(voucherID)
	lines := s.linesFor(voucherID)
	scope := domain.SequenceScope{
		CompanyID:   s.companyID,
		LocationID:  s.locationID,
		VoucherType: domain.JournalVoucher,
		PeriodCode:  "2026-08",
	}

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(draft, nil).Once()
	s.mockRepo.On("FindLinesByVoucherID", s.ctx, voucherID).Return(lines, nil).Once()
	s.expectCurrencyLookup()
	s.mockPeriods.On("ResolveForDate", s.ctx, s.companyID, draft.VoucherDate, s.userID).
		Return(&domain.FiscalPeriod{PeriodCode: "2026-08", CompanyID: s.companyID, Status: domain.PeriodOpen}, nil).Once()
	s.mockSequence.On("Next", s.ctx, scope).Return("JV-202608-000042", nil).Once()
	s.mockRepo.On("MarkVoucherPosted", s.ctx, voucherID, int64(3), "JV-202608-000042", s.userID, s.fixedNow).Return(nil).Once()

	posted, err := s.service.PostVoucher(s.ctx, voucherID, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(posted)
	s.Equal(domain.Posted, posted.Status)
	s.Equal("JV-202608-000042", posted.VoucherNumber)
	s.Equal(int64(4), posted.Version)
	s.Len(posted.Lines, 2)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestPostVoucher_AlreadyPosted() {
	voucherID := uuid.NewString()
	posted := s.draftVoucher(voucherID)
	posted.Status = domain.Posted
	posted.VoucherNumber = "JV-202608-000007"
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(posted, nil).Once()

	result, err := s.service.PostVoucher(s.ctx, voucherID, s.userID)

	s.Require().ErrorIs(err, services.ErrAlreadyPosted)
	s.Nil(result)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestPostVoucher_NotFound() {
	voucherID := uuid.NewString()
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := s.service.PostVoucher(s.ctx, voucherID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(result)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestPostVoucher_ClosedPeriod() {
	voucherID := uuid.NewString()
	draft := s.draftVoucher(voucherID)
	lines := s.linesFor(voucherID)

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(draft, nil).Once()
	s.mockRepo.On("FindLinesByVoucherID", s.ctx, voucherID).Return(lines, nil).Once()
	s.expectCurrencyLookup()
	s.mockPeriods.On("ResolveForDate", s.ctx, s.companyID, draft.VoucherDate, s.userID).
		Return(&domain.FiscalPeriod{PeriodCode: "2026-08", CompanyID: s.companyID, Status: domain.PeriodClosed}, nil).Once()
	s.mockSequence.On("Next", s.ctx, mock.Anything).Return("", services.ErrScopeClosed).Once()

	result, err := s.service.PostVoucher(s.ctx, voucherID, s.userID)

	s.Require().ErrorIs(err, services.ErrSequenceExhausted)
	s.Nil(result)
	s.mockRepo.AssertNotCalled(s.T(), "MarkVoucherPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestPostVoucher_LostRace() {
	// The draft check passes, but another request posts first; the guarded
	// write finds no matching row and the refetch explains why.
	voucherID := uuid.NewString()
	draft := s.draftVoucher(voucherID)
	lines := s.linesFor(voucherID)
	racedWinner := s.draftVoucher(voucherID)
	racedWinner.Status = domain.Posted
	racedWinner.VoucherNumber = "JV-202608-000041"
	racedWinner.Version = 4

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(draft, nil).Once()
	s.mockRepo.On("FindLinesByVoucherID", s.ctx, voucherID).Return(lines, nil).Once()
	s.expectCurrencyLookup()
	s.mockPeriods.On("ResolveForDate", s.ctx, s.companyID, draft.VoucherDate, s.userID).
		Return(&domain.FiscalPeriod{PeriodCode: "2026-08", CompanyID: s.companyID, Status: domain.PeriodOpen}, nil).Once()
	s.mockSequence.On("Next", s.ctx, mock.Anything).Return("JV-202608-000042", nil).Once()
	s.mockRepo.On("MarkVoucherPosted", s.ctx, voucherID, int64(3), "JV-202608-000042", s.userID, s.fixedNow).
		Return(apperrors.ErrConflict).Once()
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(racedWinner, nil).Once()

	result, err := s.service.PostVoucher(s.ctx, voucherID, s.userID)

	s.Require().ErrorIs(err, services.ErrAlreadyPosted)
	s.Nil(result)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestPostVoucher_ImbalancedDraft() {
	// A draft corrupted below the service (or edited by an older client) must
	// not reach POSTED; posting re-validates instead of trusting creation.
	voucherID := uuid.NewString()
	draft := s.draftVoucher(voucherID)
	lines := s.linesFor(voucherID)
	lines[1].Credit = decimal.NewFromInt(90)

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(draft, nil).Once()
	s.mockRepo.On("FindLinesByVoucherID", s.ctx, voucherID).Return(lines, nil).Once()
	s.expectCurrencyLookup()

	result, err := s.service.PostVoucher(s.ctx, voucherID, s.userID)

	s.Require().Error(err)
	s.Nil(result)
	var imbalanced *services.ImbalancedEntryError
	s.ErrorAs(err, &imbalanced)
	s.assertMocks()
}

// --- EditNotes / EditLines ---

func (s *VoucherServiceTestSuite) TestEditNotes_Success() {
	voucherID := uuid.NewString()
	s.mockRepo.On("UpdateVoucherNotes", s.ctx, voucherID, "corrected memo", s.userID, s.fixedNow).Return(nil).Once()

	err := s.service.EditNotes(s.ctx, voucherID, "corrected memo", s.userID)

	s.Require().NoError(err)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestEditNotes_NotFound() {
	voucherID := uuid.NewString()
	s.mockRepo.On("UpdateVoucherNotes", s.ctx, voucherID, "memo", s.userID, s.fixedNow).Return(apperrors.ErrNotFound).Once()

	err := s.service.EditNotes(s.ctx, voucherID, "memo", s.userID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestEditLines_Success() {
	voucherID := uuid.NewString()
	draft := s.draftVoucher(voucherID)
	req := dto.UpdateVoucherLinesRequest{
		Version: 3,
		Lines: []dto.VoucherLineInput{
			{AccountID: s.expenseAccount.AccountID, Debit: decimal.NewFromInt(80)},
			{AccountID: s.payableAccount.AccountID, Credit: decimal.NewFromInt(80)},
		},
	}

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(draft, nil).Once()
	s.expectAccountLookup(s.expenseAccount, s.payableAccount)
	s.expectCurrencyLookup()
	s.mockRepo.On("ReplaceVoucherLines", s.ctx, voucherID, int64(3), mock.Anything, mock.Anything, s.userID, s.fixedNow).Return(nil).Once()

	err := s.service.EditLines(s.ctx, voucherID, req, s.userID)

	s.Require().NoError(err)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestEditLines_NotDraft() {
	voucherID := uuid.NewString()
	posted := s.draftVoucher(voucherID)
	posted.Status = domain.Posted
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(posted, nil).Once()

	err := s.service.EditLines(s.ctx, voucherID, dto.UpdateVoucherLinesRequest{
		Version: 3,
		Lines: []dto.VoucherLineInput{
			{AccountID: s.expenseAccount.AccountID, Debit: decimal.NewFromInt(80)},
			{AccountID: s.payableAccount.AccountID, Credit: decimal.NewFromInt(80)},
		},
	}, s.userID)

	s.Require().ErrorIs(err, services.ErrNotDraft)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestEditLines_StaleVersion() {
	voucherID := uuid.NewString()
	draft := s.draftVoucher(voucherID)
	req := dto.UpdateVoucherLinesRequest{
		Version: 2, // caller read an older header
		Lines: []dto.VoucherLineInput{
			{AccountID: s.expenseAccount.AccountID, Debit: decimal.NewFromInt(80)},
			{AccountID: s.payableAccount.AccountID, Credit: decimal.NewFromInt(80)},
		},
	}

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(draft, nil).Once()
	s.expectAccountLookup(s.expenseAccount, s.payableAccount)
	s.expectCurrencyLookup()
	s.mockRepo.On("ReplaceVoucherLines", s.ctx, voucherID, int64(2), mock.Anything, mock.Anything, s.userID, s.fixedNow).
		Return(apperrors.ErrConflict).Once()

	err := s.service.EditLines(s.ctx, voucherID, req, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestEditLines_Imbalanced() {
	voucherID := uuid.NewString()
	draft := s.draftVoucher(voucherID)
	req := dto.UpdateVoucherLinesRequest{
		Version: 3,
		Lines: []dto.VoucherLineInput{
			{AccountID: s.expenseAccount.AccountID, Debit: decimal.NewFromInt(80)},
			{AccountID: s.payableAccount.AccountID, Credit: decimal.NewFromInt(70)},
		},
	}

	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(draft, nil).Once()
	s.expectAccountLookup(s.expenseAccount, s.payableAccount)
	s.expectCurrencyLookup()

	err := s.service.EditLines(s.ctx, voucherID, req, s.userID)

	var imbalanced *services.ImbalancedEntryError
	s.Require().ErrorAs(err, &imbalanced)
	s.mockRepo.AssertNotCalled(s.T(), "ReplaceVoucherLines",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.assertMocks()
}

// --- GetVoucherByID / ListVouchers ---

func (s *VoucherServiceTestSuite) TestGetVoucherByID_LoadsLines() {
	voucherID := uuid.NewString()
	draft := s.draftVoucher(voucherID)
	lines := s.linesFor(voucherID)
	s.mockRepo.On("FindVoucherByID", s.ctx, voucherID).Return(draft, nil).Once()
	s.mockRepo.On("FindLinesByVoucherID", s.ctx, voucherID).Return(lines, nil).Once()

	voucher, err := s.service.GetVoucherByID(s.ctx, voucherID)

	s.Require().NoError(err)
	s.Len(voucher.Lines, 2)
	s.assertMocks()
}

func (s *VoucherServiceTestSuite) TestListVouchers_DefaultsLimit() {
	token := "next-page"
	vouchers := []domain.Voucher{*s.draftVoucher(uuid.NewString())}
	expectedFilter := portsrepo.ListVouchersFilter{CompanyID: s.companyID}
	s.mockRepo.On("ListVouchers", s.ctx, expectedFilter, 20, (*string)(nil)).Return(vouchers, &token, nil).Once()

	resp, err := s.service.ListVouchers(s.ctx, dto.ListVouchersParams{CompanyID: s.companyID})

	s.Require().NoError(err)
	s.Len(resp.Vouchers, 1)
	s.Require().NotNil(resp.NextToken)
	s.Equal("next-page", *resp.NextToken)
	s.assertMocks()
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
