package hpentry

import (
	"context"
	"sync"
	"time"

	"github.com/hpfin/backend/internal/domain/hpentry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockHpEntryRepository struct {
	mock.Mock
}

func (m *MockHpEntryRepository) FindByID(ctx context.Context, companyID, id int64) (*hpentry.HpEntry, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hpentry.HpEntry), args.Error(1)
}

func (m *MockHpEntryRepository) Create(ctx context.Context, e *hpentry.HpEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockHpEntryRepository) Update(ctx context.Context, e *hpentry.HpEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockHpEntryRepository) UpdateFinanceValue(ctx context.Context, id int64, value decimal.Decimal) error {
	return m.Called(ctx, id, value).Error(0)
}

func (m *MockHpEntryRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockPartyDebitRepository struct {
	mock.Mock
}

func (m *MockPartyDebitRepository) FindFromHpEntry(ctx context.Context, hpEntryID int64) (*hpentry.PartyDebit, error) {
	args := m.Called(ctx, hpEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hpentry.PartyDebit), args.Error(1)
}

func (m *MockPartyDebitRepository) Create(ctx context.Context, pd *hpentry.PartyDebit) error {
	return m.Called(ctx, pd).Error(0)
}

func (m *MockPartyDebitRepository) Update(ctx context.Context, pd *hpentry.PartyDebit) error {
	return m.Called(ctx, pd).Error(0)
}

func (m *MockPartyDebitRepository) DeleteFromHpEntry(ctx context.Context, hpEntryID int64) error {
	return m.Called(ctx, hpEntryID).Error(0)
}

func (m *MockPartyDebitRepository) TotalExcludingHpEntry(ctx context.Context, hpEntryID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, hpEntryID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPartyDebitRepository) LastVoucherNumber(ctx context.Context, companyID int64) (int, error) {
	args := m.Called(ctx, companyID)
	return args.Int(0), args.Error(1)
}

type MockCollectionReader struct {
	mock.Mock
}

func (m *MockCollectionReader) TotalPaid(ctx context.Context, hpEntryID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, hpEntryID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCollectionReader) TotalReturned(ctx context.Context, hpEntryID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, hpEntryID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// fakeLimits serves fixed limits and records which ones were read.
type fakeLimits struct {
	pdr     *decimal.Decimal
	funding *decimal.Decimal
	days    int
	reads   []string
}

func (f *fakeLimits) PDRLock(context.Context, int64) (*decimal.Decimal, error) {
	f.reads = append(f.reads, "pdr")
	return f.pdr, nil
}

func (f *fakeLimits) OverFunding(context.Context, int64, int64, int) (*decimal.Decimal, error) {
	f.reads = append(f.reads, "funding")
	return f.funding, nil
}

func (f *fakeLimits) AdjustmentDays(context.Context) (int, error) {
	f.reads = append(f.reads, "days")
	return f.days, nil
}

// fakeStore hands out the mocks and runs transactions inline.
type fakeStore struct {
	entries     *MockHpEntryRepository
	partyDebits *MockPartyDebitRepository
	collections *MockCollectionReader
	limits      *fakeLimits
	txCount     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:     new(MockHpEntryRepository),
		partyDebits: new(MockPartyDebitRepository),
		collections: new(MockCollectionReader),
		limits:      &fakeLimits{},
	}
}

func (s *fakeStore) HpEntries() hpentry.Repository { return s.entries }
func (s *fakeStore) PartyDebits() hpentry.PartyDebitRepository { return s.partyDebits }
func (s *fakeStore) Collections() hpentry.CollectionReader { return s.collections }
func (s *fakeStore) Limits() hpentry.LimitReader { return s.limits }
func (s *fakeStore) Transaction(_ context.Context, fn func(tx hpentry.Store) error) error {
	s.txCount++
	return fn(s)
}

type MockBranchOwner struct {
	mock.Mock
}

func (m *MockBranchOwner) CompanyOf(ctx context.Context, branchID int64) (int64, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).(int64), args.Error(1)
}

type MockBalanceProvider struct {
	mock.Mock
}

func (m *MockBalanceProvider) GetClosingBalance(ctx context.Context, branchID, companyID int64, presentDate time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, branchID, companyID, presentDate)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type recordingNotifier struct {
	mu      sync.Mutex
	created chan *hpentry.HpEntry
	err     error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{created: make(chan *hpentry.HpEntry, 1)}
}

func (n *recordingNotifier) HpEntryCreated(_ context.Context, e *hpentry.HpEntry) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created <- e
	return n.err
}
