// Package export renders ledger data as spreadsheet downloads.
package export

import (
	"fmt"
	"io"

	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of the workbooks written here.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const closingSheet = "Closing Balances"

var closingHeaders = []string{"Date", "Branch", "Closing Amount"}

// ClosingBalanceFilename names the download for one branch and date range.
func ClosingBalanceFilename(branchID int64, from, to string) string {
	return fmt.Sprintf("closing-balances-branch-%d-%s-to-%s.xlsx", branchID, from, to)
}

// WriteClosingBalances writes one row per closing record followed by a total row.
func WriteClosingBalances(w io.Writer, rows []ledger.ClosingBalance) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", closingSheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(closingSheet, "A1", &closingHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(closingSheet, "A1", "C1", header); err != nil {
		return err
	}

	total := decimal.Zero
	for i, cb := range rows {
		line := i + 2
		values := []any{cb.Date.Format(shared.DateLayout), cb.BranchID, cb.ClosingAmount.InexactFloat64()}
		if err := f.SetSheetRow(closingSheet, fmt.Sprintf("A%d", line), &values); err != nil {
			return err
		}
		total = total.Add(cb.ClosingAmount)
	}

	last := len(rows) + 2
	totalRow := []any{"Total", nil, total.InexactFloat64()}
	if err := f.SetSheetRow(closingSheet, fmt.Sprintf("A%d", last), &totalRow); err != nil {
		return err
	}
	if err := f.SetCellStyle(closingSheet, "C2", fmt.Sprintf("C%d", last), money); err != nil {
		return err
	}
	if err := f.SetColWidth(closingSheet, "A", "C", 18); err != nil {
		return err
	}

	return f.Write(w)
}
