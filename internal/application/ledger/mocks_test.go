package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) CountForCompany(ctx context.Context, companyID int64) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBranchRepository) IDsForCompany(ctx context.Context, companyID int64) ([]int64, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockBranchRepository) CompanyOf(ctx context.Context, branchID int64) (int64, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBranchRepository) CompanyIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockClosingBalanceRepository struct {
	mock.Mock
}

func (m *MockClosingBalanceRepository) LatestDate(ctx context.Context, companyID int64) (*time.Time, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockClosingBalanceRepository) CountForDate(ctx context.Context, companyID int64, date time.Time) (int64, error) {
	args := m.Called(ctx, companyID, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClosingBalanceRepository) ClosedBranchIDs(ctx context.Context, companyID int64, date time.Time) ([]int64, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockClosingBalanceRepository) ClosingAmount(ctx context.Context, branchID int64, date time.Time) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, branchID, date)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *MockClosingBalanceRepository) SumClosingAmount(ctx context.Context, scope ledger.Scope, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, scope, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockClosingBalanceRepository) Insert(ctx context.Context, cb *ledger.ClosingBalance) error {
	args := m.Called(ctx, cb)
	return args.Error(0)
}

func (m *MockClosingBalanceRepository) ListForBranch(ctx context.Context, branchID int64, from, to time.Time) ([]ledger.ClosingBalance, error) {
	args := m.Called(ctx, branchID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.ClosingBalance), args.Error(1)
}

type MockSnapshotReader struct {
	mock.Mock
}

func (m *MockSnapshotReader) Aggregate(ctx context.Context, scope ledger.Scope, date time.Time) (*ledger.Snapshot, error) {
	args := m.Called(ctx, scope, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Snapshot), args.Error(1)
}

// fakeLocker hands out locks per key and records releases.
type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	released int
	err      error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Obtain(_ context.Context, key string, _ time.Duration) (shared.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	if l.held[key] {
		return nil, shared.ErrLockNotObtained
	}
	l.held[key] = true
	return fakeLock{locker: l, key: key}, nil
}

type fakeLock struct {
	locker *fakeLocker
	key    string
}

func (f fakeLock) Release(context.Context) error {
	f.locker.mu.Lock()
	defer f.locker.mu.Unlock()
	delete(f.locker.held, f.key)
	f.locker.released++
	return nil
}
