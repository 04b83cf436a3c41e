package hpentry

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines persistence for HP entries
type Repository interface {
	// FindByID finds an entry of a company by id; returns shared.ErrNotFound when absent
	FindByID(ctx context.Context, companyID, id int64) (*HpEntry, error)

	// Create inserts the entry and sets its generated id
	Create(ctx context.Context, e *HpEntry) error

	// Update writes every mutable field of the entry
	Update(ctx context.Context, e *HpEntry) error

	// UpdateFinanceValue stores the derived HP finance value
	UpdateFinanceValue(ctx context.Context, id int64, value decimal.Decimal) error

	// Delete removes the entry; returns shared.ErrNotFound when nothing was deleted
	Delete(ctx context.Context, id int64) error
}

// PartyDebitRepository defines persistence for party debits
type PartyDebitRepository interface {
	// FindFromHpEntry returns the entry's paired party debit, nil when none
	FindFromHpEntry(ctx context.Context, hpEntryID int64) (*PartyDebit, error)

	// Create inserts a party debit
	Create(ctx context.Context, pd *PartyDebit) error

	// Update writes amount, date and consultant of a party debit
	Update(ctx context.Context, pd *PartyDebit) error

	// DeleteFromHpEntry removes the entry's paired party debits
	DeleteFromHpEntry(ctx context.Context, hpEntryID int64) error

	// TotalExcludingHpEntry sums the entry's party debits not created by the HP workflow
	TotalExcludingHpEntry(ctx context.Context, hpEntryID int64) (decimal.Decimal, error)

	// LastVoucherNumber returns the voucher of the company's newest party debit, 0 when none
	LastVoucherNumber(ctx context.Context, companyID int64) (int, error)
}

// CollectionReader reads money already collected against an entry
type CollectionReader interface {
	// TotalPaid sums receipts paid against the entry
	TotalPaid(ctx context.Context, hpEntryID int64) (decimal.Decimal, error)

	// TotalReturned sums HP returns recorded against the entry
	TotalReturned(ctx context.Context, hpEntryID int64) (decimal.Decimal, error)
}

// LimitReader reads the lending limits. Limits are read through on every call.
type LimitReader interface {
	// PDRLock returns the branch party debit ceiling, nil when not configured
	PDRLock(ctx context.Context, branchID int64) (*decimal.Decimal, error)

	// OverFunding returns the funding ceiling for a branch vehicle model, nil when unrestricted
	OverFunding(ctx context.Context, branchID, vehicleID int64, modelYear int) (*decimal.Decimal, error)

	// AdjustmentDays returns the global adjust window size, 0 when not configured
	AdjustmentDays(ctx context.Context) (int, error)
}

// Store groups the repositories the posting workflow writes through, so that
// they can be bound to one transaction.
type Store interface {
	HpEntries() Repository
	PartyDebits() PartyDebitRepository
	Collections() CollectionReader
	Limits() LimitReader

	// Transaction runs fn against a store bound to a single database transaction
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// Notifier announces a newly created entry. Delivery is best effort.
type Notifier interface {
	HpEntryCreated(ctx context.Context, e *HpEntry) error
}
