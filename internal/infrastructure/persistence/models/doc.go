// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - master.go: companies, branches and the lending limit tables
// - hpentry.go: HP entries and their party debit vouchers
// - ledger.go: closing balances and the cash movement tables the ledger aggregates
package models
