package ledger

// Side is the direction a ledger category moves branch cash.
type Side string

const (
	SideCredit Side = "CREDIT" // Cash coming into the branch
	SideDebit  Side = "DEBIT"  // Cash leaving the branch
)

// IsValid checks if the side is valid
func (s Side) IsValid() bool {
	return s == SideCredit || s == SideDebit
}

// String returns the string representation
func (s Side) String() string {
	return string(s)
}

// Category is one named total of the daily ledger projection.
// The value doubles as the column alias of the aggregation query.
type Category string

const (
	CapitalCredit       Category = "capital_credit"
	PartyCredit         Category = "party_credit"
	PendingCredit       Category = "pending_credit"
	ReceiptAmount       Category = "receipt_amount"
	ODInterestReceipt   Category = "od_interest_receipt"
	ReceiptPDR          Category = "receipt_pdr"
	PDRInterestReceipt  Category = "pdr_interest_receipt"
	CampCharge          Category = "camp_charge"
	LoanCredit          Category = "loan_credit"
	SalaryAdvanceCredit Category = "salary_advance_credit"

	HPEntryFinance     Category = "hp_entry_finance"
	Refinance          Category = "refinance"
	HPEntryPDR         Category = "hp_entry_pdr"
	Expense            Category = "expense"
	CapitalDebit       Category = "capital_debit"
	PartyDebit         Category = "party_debit"
	PendingDebit       Category = "pending_debit"
	RTOPaid            Category = "rto_paid"
	DOCPaid            Category = "doc_paid"
	LoanDebit          Category = "loan_debit"
	SalaryAdvanceDebit Category = "salary_advance_debit"
	Salary             Category = "salary"
	BankReceiptTotal   Category = "bank_receipt_total"
)

var creditCategories = []Category{
	CapitalCredit, PartyCredit, PendingCredit, ReceiptAmount, ODInterestReceipt,
	ReceiptPDR, PDRInterestReceipt, CampCharge, LoanCredit, SalaryAdvanceCredit,
}

var debitCategories = []Category{
	HPEntryFinance, Refinance, HPEntryPDR, Expense, CapitalDebit, PartyDebit,
	PendingDebit, RTOPaid, DOCPaid, LoanDebit, SalaryAdvanceDebit, Salary, BankReceiptTotal,
}

// Categories returns every ledger category, credits first, in a stable order.
func Categories() []Category {
	out := make([]Category, 0, len(creditCategories)+len(debitCategories))
	out = append(out, creditCategories...)
	return append(out, debitCategories...)
}

// Side returns which side of the balance the category sits on.
// Unknown categories report an empty side.
func (c Category) Side() Side {
	for _, cc := range creditCategories {
		if cc == c {
			return SideCredit
		}
	}
	for _, dc := range debitCategories {
		if dc == c {
			return SideDebit
		}
	}
	return ""
}

// IsValid checks if the category is one of the known ledger categories
func (c Category) IsValid() bool {
	return c.Side() != ""
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}
