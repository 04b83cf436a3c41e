package persistence

import (
	"context"

	"github.com/hpfin/backend/internal/domain/hpentry"
	"gorm.io/gorm"
)

// GormHpEntryStore implements hpentry.Store. A store created inside Transaction
// binds every repository to the same *gorm.DB transaction.
type GormHpEntryStore struct {
	db          *gorm.DB
	entries     *GormHpEntryRepository
	partyDebits *GormPartyDebitRepository
	collections *GormCollectionRepository
	limits      *GormLimitRepository
}

// NewGormHpEntryStore creates a new GormHpEntryStore
func NewGormHpEntryStore(db *gorm.DB) *GormHpEntryStore {
	return &GormHpEntryStore{
		db:          db,
		entries:     NewGormHpEntryRepository(db),
		partyDebits: NewGormPartyDebitRepository(db),
		collections: NewGormCollectionRepository(db),
		limits:      NewGormLimitRepository(db),
	}
}

// HpEntries returns the HP entry repository
func (s *GormHpEntryStore) HpEntries() hpentry.Repository { return s.entries }

// PartyDebits returns the party debit repository
func (s *GormHpEntryStore) PartyDebits() hpentry.PartyDebitRepository { return s.partyDebits }

// Collections returns the receipts and returns reader
func (s *GormHpEntryStore) Collections() hpentry.CollectionReader { return s.collections }

// Limits returns the lending limit reader
func (s *GormHpEntryStore) Limits() hpentry.LimitReader { return s.limits }

// Transaction runs fn inside a database transaction; any error rolls it back
func (s *GormHpEntryStore) Transaction(ctx context.Context, fn func(tx hpentry.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormHpEntryStore(tx))
	})
}
