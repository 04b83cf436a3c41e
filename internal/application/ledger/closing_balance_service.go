// Package ledger orchestrates the end-of-day closing ledger: advancing closing
// balances, available cash and opening balances.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/hpfin/backend/internal/infrastructure/logger"
	"github.com/hpfin/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultLockTTL bounds how long one advance may hold the company lock.
const DefaultLockTTL = 10 * time.Minute

// AdvanceResult reports what one AdvanceClosingBalance call did.
type AdvanceResult struct {
	CompanyID int64     `json:"company_id"`
	Date      time.Time `json:"date"`
	Closed    []int64   `json:"closed_branch_ids"`
	Skipped   []int64   `json:"skipped_branch_ids,omitempty"` // closed by a concurrent run
	UpToDate  bool      `json:"up_to_date"`
	Busy      bool      `json:"busy"` // another run holds the company lock
}

// ClosingBalanceService advances and reads the closing ledger.
type ClosingBalanceService struct {
	branches  ledger.BranchRepository
	closings  ledger.ClosingBalanceRepository
	snapshots ledger.SnapshotReader
	locker    shared.Locker
	clock     shared.Clock
	lockTTL   time.Duration
	logger    *zap.Logger
}

// Option configures a ClosingBalanceService.
type Option func(*ClosingBalanceService)

// WithClock replaces the wall clock.
func WithClock(c shared.Clock) Option {
	return func(s *ClosingBalanceService) { s.clock = c }
}

// WithLockTTL sets the company lock lifetime.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *ClosingBalanceService) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// NewClosingBalanceService creates a new ClosingBalanceService
func NewClosingBalanceService(
	branches ledger.BranchRepository,
	closings ledger.ClosingBalanceRepository,
	snapshots ledger.SnapshotReader,
	locker shared.Locker,
	log *zap.Logger,
	opts ...Option,
) *ClosingBalanceService {
	s := &ClosingBalanceService{
		branches:  branches,
		closings:  closings,
		snapshots: snapshots,
		locker:    locker,
		clock:     shared.SystemClock(),
		lockTTL:   DefaultLockTTL,
		logger:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentClosingDate returns the date the company's next closing run works on.
// It only reads.
func (s *ClosingBalanceService) CurrentClosingDate(ctx context.Context, companyID int64) (time.Time, error) {
	branchCount, err := s.branches.CountForCompany(ctx, companyID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to count branches: %w", err)
	}
	latest, err := s.closings.LatestDate(ctx, companyID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read latest closing date: %w", err)
	}

	var closedCount int64
	if latest != nil {
		closedCount, err = s.closings.CountForDate(ctx, companyID, *latest)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to count closed branches: %w", err)
		}
	}
	return ledger.NextClosingDate(branchCount, closedCount, latest), nil
}

// AdvanceClosingBalance closes every pending branch of the company for the
// cursor date, provided that date is already in the past. At most one date is
// closed per call; later days are closed by later calls.
func (s *ClosingBalanceService) AdvanceClosingBalance(ctx context.Context, companyID int64) (result *AdvanceResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "closing_balance", "advance",
		attribute.Int64(telemetry.SpanAttrCompanyID, companyID))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	log := logger.WithLogger(ctx, s.logger.With(zap.Int64("company_id", companyID)))

	result = &AdvanceResult{CompanyID: companyID}
	lock, err := s.locker.Obtain(ctx, "closing:"+strconv.FormatInt(companyID, 10), s.lockTTL)
	if errors.Is(err, shared.ErrLockNotObtained) {
		log.Info("Closing balance run already in progress")
		result.Busy = true
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain closing lock: %w", err)
	}
	defer func() {
		if relErr := lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			log.Warn("Failed to release closing lock", zap.Error(relErr))
		}
	}()

	cursor, err := s.CurrentClosingDate(ctx, companyID)
	if err != nil {
		return nil, err
	}
	result.Date = cursor
	span.SetAttributes(attribute.String(telemetry.SpanAttrClosingDate, cursor.Format(shared.DateLayout)))

	today := shared.Today(s.clock)
	if !today.After(cursor) {
		result.UpToDate = true
		return result, nil
	}

	all, err := s.branches.IDsForCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	closed, err := s.closings.ClosedBranchIDs(ctx, companyID, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed branches: %w", err)
	}

	for _, branchID := range ledger.PendingBranches(all, closed) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inserted, err := s.closeBranch(ctx, companyID, branchID, cursor)
		if err != nil {
			return nil, err
		}
		if inserted {
			result.Closed = append(result.Closed, branchID)
			continue
		}
		log.Info("Branch already closed by a concurrent run",
			zap.Int64("branch_id", branchID),
			zap.String("date", cursor.Format(shared.DateLayout)),
		)
		result.Skipped = append(result.Skipped, branchID)
	}

	log.Info("Closing balances advanced",
		zap.String("date", cursor.Format(shared.DateLayout)),
		zap.Int("closed", len(result.Closed)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// closeBranch records the branch closing for date. It reports false when the
// row already existed.
func (s *ClosingBalanceService) closeBranch(ctx context.Context, companyID, branchID int64, date time.Time) (bool, error) {
	amount, err := s.closingFor(ctx, branchID, date)
	if err != nil {
		return false, err
	}
	cb, err := ledger.NewClosingBalance(companyID, branchID, date, amount)
	if err != nil {
		return false, err
	}
	if err := s.closings.Insert(ctx, cb); err != nil {
		if errors.Is(err, ledger.ErrClosingBalanceExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert closing balance for branch %d: %w", branchID, err)
	}
	return true, nil
}

// closingFor is the day balance of the branch on date plus its closing on the previous day.
func (s *ClosingBalanceService) closingFor(ctx context.Context, branchID int64, date time.Time) (decimal.Decimal, error) {
	snapshot, err := s.snapshots.Aggregate(ctx, ledger.BranchScope(branchID), date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to aggregate branch %d: %w", branchID, err)
	}
	previous, _, err := s.closings.ClosingAmount(ctx, branchID, shared.AddDays(date, -1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read previous closing of branch %d: %w", branchID, err)
	}
	return ledger.ClosingAmount(snapshot, previous), nil
}

// GetClosingBalance returns the cash available at the branch on presentDate:
// the day's balance so far plus the previous day's closing.
func (s *ClosingBalanceService) GetClosingBalance(ctx context.Context, branchID, companyID int64, presentDate time.Time) (decimal.Decimal, error) {
	if err := s.ensureBranchOf(ctx, companyID, branchID); err != nil {
		return decimal.Zero, err
	}
	return s.closingFor(ctx, branchID, shared.CivilDate(presentDate))
}

// BranchHistory lists the stored closings of a branch between two dates inclusive.
func (s *ClosingBalanceService) BranchHistory(ctx context.Context, companyID, branchID int64, from, to time.Time) ([]ledger.ClosingBalance, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "'from' must not be after 'to'")
	}
	if err := s.ensureBranchOf(ctx, companyID, branchID); err != nil {
		return nil, err
	}
	rows, err := s.closings.ListForBranch(ctx, branchID, shared.CivilDate(from), shared.CivilDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list closing balances: %w", err)
	}
	return rows, nil
}

func (s *ClosingBalanceService) ensureBranchOf(ctx context.Context, companyID, branchID int64) error {
	owner, err := s.branches.CompanyOf(ctx, branchID)
	if err != nil {
		return err
	}
	if owner != companyID {
		return shared.ErrNotFound
	}
	return nil
}
