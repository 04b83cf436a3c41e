package hpentry

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherLimit is the highest voucher number before the company sequence restarts at 1.
const VoucherLimit = 2000

// PartyDebit is money owed through a third party. Rows created by the HP entry
// workflow carry FromHpEntry and are tied to exactly one entry.
type PartyDebit struct {
	ID               int64           `json:"id"`
	CompanyID        int64           `json:"company_id"`
	BranchID         int64           `json:"branch_id"`
	HpEntryID        *int64          `json:"hp_entry_id,omitempty"`
	AutoConsultantID int64           `json:"auto_consultant_id"`
	Amount           decimal.Decimal `json:"amount"`
	VoucherNumber    int             `json:"voucher_number"`
	Date             time.Time       `json:"date"`
	FromHpEntry      bool            `json:"from_hp_entry"`
	Remarks          string          `json:"remarks"`
}

// NextVoucherNumber continues the rolling company voucher sequence.
func NextVoucherNumber(last int) int {
	if last >= VoucherLimit {
		return 1
	}
	return last + 1
}

// NewPartyDebitFromEntry builds the party debit paired with an HP entry.
func NewPartyDebitFromEntry(e *HpEntry, voucher int) *PartyDebit {
	id := e.ID
	return &PartyDebit{
		CompanyID:        e.CompanyID,
		BranchID:         e.BranchID,
		HpEntryID:        &id,
		AutoConsultantID: e.AutoConsultantID,
		Amount:           e.PartyDebitAmount,
		VoucherNumber:    voucher,
		Date:             e.Date,
		FromHpEntry:      true,
		Remarks:          "HP entry party debit",
	}
}
