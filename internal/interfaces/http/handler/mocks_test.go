package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	hpentryapp "github.com/hpfin/backend/internal/application/hpentry"
	ledgerapp "github.com/hpfin/backend/internal/application/ledger"
	"github.com/hpfin/backend/internal/domain/hpentry"
	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/hpfin/backend/internal/infrastructure/scheduler"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockHpEntryService struct {
	mock.Mock
}

func (m *MockHpEntryService) CheckAmounts(ctx context.Context, companyID int64, req hpentryapp.CheckAmountsRequest) (*hpentryapp.CheckResult, error) {
	args := m.Called(ctx, companyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hpentryapp.CheckResult), args.Error(1)
}

func (m *MockHpEntryService) CheckFundingRestriction(ctx context.Context, companyID int64, req hpentryapp.CheckFundingRequest) (*hpentryapp.CheckResult, error) {
	args := m.Called(ctx, companyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hpentryapp.CheckResult), args.Error(1)
}

func (m *MockHpEntryService) Get(ctx context.Context, companyID, id int64) (*hpentry.HpEntry, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hpentry.HpEntry), args.Error(1)
}

func (m *MockHpEntryService) Create(ctx context.Context, companyID int64, req hpentryapp.HpEntryRequest) (*hpentry.HpEntry, error) {
	args := m.Called(ctx, companyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hpentry.HpEntry), args.Error(1)
}

func (m *MockHpEntryService) Update(ctx context.Context, companyID, id int64, req hpentryapp.HpEntryRequest) (*hpentry.HpEntry, error) {
	args := m.Called(ctx, companyID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hpentry.HpEntry), args.Error(1)
}

func (m *MockHpEntryService) Delete(ctx context.Context, companyID, id int64) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

type MockClosingBalanceService struct {
	mock.Mock
}

func (m *MockClosingBalanceService) CurrentClosingDate(ctx context.Context, companyID int64) (time.Time, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockClosingBalanceService) GetClosingBalance(ctx context.Context, branchID, companyID int64, presentDate time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, branchID, companyID, presentDate)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockClosingBalanceService) BranchHistory(ctx context.Context, companyID, branchID int64, from, to time.Time) ([]ledger.ClosingBalance, error) {
	args := m.Called(ctx, companyID, branchID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.ClosingBalance), args.Error(1)
}

type MockJobSubmitter struct {
	mock.Mock
}

func (m *MockJobSubmitter) Submit(companyID int64, trigger scheduler.Trigger) (uuid.UUID, error) {
	args := m.Called(companyID, trigger)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type MockOpeningBalanceService struct {
	mock.Mock
}

func (m *MockOpeningBalanceService) GetOpeningBalance(ctx context.Context, companyID int64, scope ledger.Scope, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, scope, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOpeningBalanceService) GetDaySheet(ctx context.Context, companyID int64, scope ledger.Scope, date time.Time) (*ledgerapp.DaySheet, error) {
	args := m.Called(ctx, companyID, scope, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.DaySheet), args.Error(1)
}
