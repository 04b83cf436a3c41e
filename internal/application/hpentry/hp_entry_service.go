// Package hpentry runs the HP entry posting workflow: the pre-submit checks and
// the transactional create, update and delete pipelines.
package hpentry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hpfin/backend/internal/domain/hpentry"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/hpfin/backend/internal/infrastructure/logger"
	"github.com/hpfin/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// BalanceProvider returns the cash available at a branch on a date.
type BalanceProvider interface {
	GetClosingBalance(ctx context.Context, branchID, companyID int64, presentDate time.Time) (decimal.Decimal, error)
}

// BranchOwner resolves the company a branch belongs to.
type BranchOwner interface {
	CompanyOf(ctx context.Context, branchID int64) (int64, error)
}

// HpEntryService validates and posts HP entries.
type HpEntryService struct {
	store    hpentry.Store
	branches BranchOwner
	balances BalanceProvider
	notifier hpentry.Notifier
	clock    shared.Clock
	logger   *zap.Logger
}

// Option configures an HpEntryService.
type Option func(*HpEntryService)

// WithClock replaces the wall clock.
func WithClock(c shared.Clock) Option {
	return func(s *HpEntryService) { s.clock = c }
}

// WithNotifier sets where newly created entries are announced.
func WithNotifier(n hpentry.Notifier) Option {
	return func(s *HpEntryService) { s.notifier = n }
}

// NewHpEntryService creates a new HpEntryService
func NewHpEntryService(
	store hpentry.Store,
	branches BranchOwner,
	balances BalanceProvider,
	log *zap.Logger,
	opts ...Option,
) *HpEntryService {
	s := &HpEntryService{
		store:    store,
		branches: branches,
		balances: balances,
		clock:    shared.SystemClock(),
		logger:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAmounts reports whether the party debit fits under the branch PDR lock.
func (s *HpEntryService) CheckAmounts(ctx context.Context, companyID int64, req CheckAmountsRequest) (*CheckResult, error) {
	if err := s.ensureBranchOf(ctx, companyID, req.BranchID); err != nil {
		return nil, err
	}
	return checkResult(s.checkPDR(ctx, s.store.Limits(), req.BranchID, req.PartyDebitAmount))
}

// CheckFundingRestriction reports whether finance value plus doc and RTO
// charges fits under the funding ceiling of the vehicle model.
func (s *HpEntryService) CheckFundingRestriction(ctx context.Context, companyID int64, req CheckFundingRequest) (*CheckResult, error) {
	if err := s.ensureBranchOf(ctx, companyID, req.BranchID); err != nil {
		return nil, err
	}
	funded := req.FinanceValue.Add(req.DocCharges).Add(req.RTOCharges)
	return checkResult(s.checkFunding(ctx, s.store.Limits(), req.BranchID, req.VehicleID, req.ModelYear, funded))
}

// Get returns an entry of the company.
func (s *HpEntryService) Get(ctx context.Context, companyID, id int64) (*hpentry.HpEntry, error) {
	return s.store.HpEntries().FindByID(ctx, companyID, id)
}

// Create validates a new entry and posts it together with its party debit.
func (s *HpEntryService) Create(ctx context.Context, companyID int64, req HpEntryRequest) (entry *hpentry.HpEntry, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "hp_entry", "create",
		attribute.Int64(telemetry.SpanAttrCompanyID, companyID),
		attribute.Int64(telemetry.SpanAttrBranchID, req.BranchID))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	today := shared.Today(s.clock)
	entry, err = req.toEntry(companyID, today)
	if err != nil {
		return nil, err
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureBranchOf(ctx, companyID, entry.BranchID); err != nil {
		return nil, err
	}

	limits := s.store.Limits()
	if err := s.checkPDR(ctx, limits, entry.BranchID, entry.PartyDebitAmount); err != nil {
		return nil, err
	}
	if err := s.checkFunding(ctx, limits, entry.BranchID, entry.VehicleID, entry.VehicleModelYear, entry.FundedTotal()); err != nil {
		return nil, err
	}
	if err := s.checkAdjustDate(ctx, limits, today, entry.AdjustDate); err != nil {
		return nil, err
	}
	available, err := s.balances.GetClosingBalance(ctx, entry.BranchID, companyID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to compute available balance: %w", err)
	}
	if err := hpentry.CheckCashSufficiency(available, entry.FinanceValue, entry.PartyDebitAmount); err != nil {
		return nil, err
	}

	entry.ApplyDerived()
	err = s.store.Transaction(ctx, func(tx hpentry.Store) error {
		if err := tx.HpEntries().Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to insert hp entry: %w", err)
		}
		if !entry.HasPartyDebit() {
			return nil
		}
		return insertPartyDebit(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64(telemetry.SpanAttrHpEntryID, entry.ID))

	logger.WithLogger(ctx, s.logger).Info("HP entry created",
		zap.Int64("hp_entry_id", entry.ID),
		zap.Int64("company_id", companyID),
		zap.Int64("branch_id", entry.BranchID),
		zap.String("finance_value", entry.FinanceValue.String()),
		zap.String("party_debit_amount", entry.PartyDebitAmount.String()),
	)
	s.notifyCreated(ctx, entry)
	return entry, nil
}

// Update validates the new values of an entry and writes them together with
// the maintenance of its party debit.
func (s *HpEntryService) Update(ctx context.Context, companyID, id int64, req HpEntryRequest) (entry *hpentry.HpEntry, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "hp_entry", "update",
		attribute.Int64(telemetry.SpanAttrCompanyID, companyID),
		attribute.Int64(telemetry.SpanAttrHpEntryID, id))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	existing, err := s.store.HpEntries().FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	entry, err = req.toEntry(companyID, existing.Date)
	if err != nil {
		return nil, err
	}
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if entry.BranchID != existing.BranchID {
		if err := s.ensureBranchOf(ctx, companyID, entry.BranchID); err != nil {
			return nil, err
		}
	}

	limits := s.store.Limits()
	if err := s.checkPDR(ctx, limits, entry.BranchID, entry.PartyDebitAmount); err != nil {
		return nil, err
	}
	if err := s.checkAdjustDate(ctx, limits, existing.Date, entry.AdjustDate); err != nil {
		return nil, err
	}

	paid, err := s.store.Collections().TotalPaid(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to sum receipts: %w", err)
	}
	otherDebits, err := s.store.PartyDebits().TotalExcludingHpEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to sum party debits: %w", err)
	}
	if err := hpentry.CheckPartyDebitCoverage(otherDebits, entry.PartyDebitAmount, paid); err != nil {
		return nil, err
	}
	returned, err := s.store.Collections().TotalReturned(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to sum hp returns: %w", err)
	}
	if err := hpentry.CheckFinanceCoverage(entry.FinancedTotal(), paid, returned); err != nil {
		return nil, err
	}

	entry.ApplyDerived()
	err = s.store.Transaction(ctx, func(tx hpentry.Store) error {
		if err := tx.HpEntries().UpdateFinanceValue(ctx, id, entry.HPFinanceValue); err != nil {
			return fmt.Errorf("failed to update hp finance value: %w", err)
		}
		if err := tx.HpEntries().Update(ctx, entry); err != nil {
			return fmt.Errorf("failed to update hp entry: %w", err)
		}
		return syncPartyDebit(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("HP entry updated",
		zap.Int64("hp_entry_id", id),
		zap.Int64("company_id", companyID),
	)
	return entry, nil
}

// Delete removes an entry and its party debit in one transaction. Entries
// whose receipts exceed their party debits are in use and cannot be deleted.
func (s *HpEntryService) Delete(ctx context.Context, companyID, id int64) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "hp_entry", "delete",
		attribute.Int64(telemetry.SpanAttrCompanyID, companyID),
		attribute.Int64(telemetry.SpanAttrHpEntryID, id))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	log := logger.WithLogger(ctx, s.logger.With(zap.Int64("hp_entry_id", id)))

	if _, err := s.store.HpEntries().FindByID(ctx, companyID, id); err != nil {
		return err
	}
	debits, err := s.store.PartyDebits().TotalExcludingHpEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to sum party debits: %w", err)
	}
	paid, err := s.store.Collections().TotalPaid(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to sum receipts: %w", err)
	}
	if err := hpentry.CheckDeleteCoverage(debits, paid); err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(tx hpentry.Store) error {
		if err := tx.PartyDebits().DeleteFromHpEntry(ctx, id); err != nil {
			return fmt.Errorf("failed to delete party debits: %w", err)
		}
		return tx.HpEntries().Delete(ctx, id)
	})
	if err != nil {
		log.Error("Failed to delete HP entry", zap.Error(err))
		return shared.ErrDataInUse
	}

	log.Info("HP entry deleted", zap.Int64("company_id", companyID))
	return nil
}

func (s *HpEntryService) checkPDR(ctx context.Context, limits hpentry.LimitReader, branchID int64, amount decimal.Decimal) error {
	ceiling, err := limits.PDRLock(ctx, branchID)
	if err != nil {
		return fmt.Errorf("failed to read pdr lock: %w", err)
	}
	return hpentry.CheckPDRCeiling(amount, ceiling)
}

func (s *HpEntryService) checkFunding(ctx context.Context, limits hpentry.LimitReader, branchID, vehicleID int64, modelYear int, funded decimal.Decimal) error {
	ceiling, err := limits.OverFunding(ctx, branchID, vehicleID, modelYear)
	if err != nil {
		return fmt.Errorf("failed to read funding restriction: %w", err)
	}
	return hpentry.CheckFundingRestriction(funded, ceiling)
}

func (s *HpEntryService) checkAdjustDate(ctx context.Context, limits hpentry.LimitReader, anchor, adjust time.Time) error {
	days, err := limits.AdjustmentDays(ctx)
	if err != nil {
		return fmt.Errorf("failed to read adjustment days: %w", err)
	}
	return hpentry.NewAdjustmentWindow(anchor, days).Check(adjust)
}

func (s *HpEntryService) ensureBranchOf(ctx context.Context, companyID, branchID int64) error {
	owner, err := s.branches.CompanyOf(ctx, branchID)
	if err != nil {
		return err
	}
	if owner != companyID {
		return shared.ErrNotFound
	}
	return nil
}

// notifyCreated announces the entry in the background. A failed notification
// never fails the request.
func (s *HpEntryService) notifyCreated(ctx context.Context, entry *hpentry.HpEntry) {
	if s.notifier == nil {
		return
	}
	snapshot := *entry
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.HpEntryCreated(ctx, &snapshot); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to send HP entry notification",
				zap.Int64("hp_entry_id", snapshot.ID),
				zap.Error(err),
			)
		}
	}()
}

// insertPartyDebit adds the entry's party debit with the next company voucher number.
func insertPartyDebit(ctx context.Context, tx hpentry.Store, entry *hpentry.HpEntry) error {
	last, err := tx.PartyDebits().LastVoucherNumber(ctx, entry.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to read last voucher number: %w", err)
	}
	pd := hpentry.NewPartyDebitFromEntry(entry, hpentry.NextVoucherNumber(last))
	if err := tx.PartyDebits().Create(ctx, pd); err != nil {
		return fmt.Errorf("failed to insert party debit: %w", err)
	}
	return nil
}

// syncPartyDebit updates, inserts or removes the entry's party debit to match
// its PartyDebitAmount.
func syncPartyDebit(ctx context.Context, tx hpentry.Store, entry *hpentry.HpEntry) error {
	current, err := tx.PartyDebits().FindFromHpEntry(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to read party debit: %w", err)
	}
	switch {
	case entry.HasPartyDebit() && current != nil:
		current.BranchID = entry.BranchID
		current.Amount = entry.PartyDebitAmount
		current.Date = entry.Date
		current.AutoConsultantID = entry.AutoConsultantID
		if err := tx.PartyDebits().Update(ctx, current); err != nil {
			return fmt.Errorf("failed to update party debit: %w", err)
		}
	case entry.HasPartyDebit():
		return insertPartyDebit(ctx, tx, entry)
	case current != nil:
		if err := tx.PartyDebits().DeleteFromHpEntry(ctx, entry.ID); err != nil {
			return fmt.Errorf("failed to delete party debit: %w", err)
		}
	}
	return nil
}

// LoggingNotifier records created entries in the log. SMS delivery plugs in
// behind the same interface.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a new logging notifier
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// HpEntryCreated implements hpentry.Notifier.
func (n *LoggingNotifier) HpEntryCreated(ctx context.Context, e *hpentry.HpEntry) error {
	if e == nil {
		return errors.New("nil hp entry")
	}
	n.logger.Info("HP entry notification",
		zap.Int64("hp_entry_id", e.ID),
		zap.Int64("branch_id", e.BranchID),
		zap.String("customer_phone", e.CustomerPhone),
	)
	return nil
}

var _ hpentry.Notifier = (*LoggingNotifier)(nil)
