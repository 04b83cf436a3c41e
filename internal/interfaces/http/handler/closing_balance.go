package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/hpfin/backend/internal/infrastructure/export"
	"github.com/hpfin/backend/internal/infrastructure/logger"
	"github.com/hpfin/backend/internal/infrastructure/scheduler"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// historyWindowDays is the default look-back of the branch history endpoints.
const historyWindowDays = 30

// ClosingBalanceService is the application surface used by ClosingBalanceHandler
type ClosingBalanceService interface {
	CurrentClosingDate(ctx context.Context, companyID int64) (time.Time, error)
	GetClosingBalance(ctx context.Context, branchID, companyID int64, presentDate time.Time) (decimal.Decimal, error)
	BranchHistory(ctx context.Context, companyID, branchID int64, from, to time.Time) ([]ledger.ClosingBalance, error)
}

// ClosingJobSubmitter queues closing runs
type ClosingJobSubmitter interface {
	Submit(companyID int64, trigger scheduler.Trigger) (uuid.UUID, error)
}

// ClosingBalanceHandler handles closing balance endpoints
type ClosingBalanceHandler struct {
	BaseHandler
	service ClosingBalanceService
	jobs    ClosingJobSubmitter
	clock   shared.Clock
}

// NewClosingBalanceHandler creates a new ClosingBalanceHandler
func NewClosingBalanceHandler(service ClosingBalanceService, jobs ClosingJobSubmitter, clock shared.Clock) *ClosingBalanceHandler {
	if clock == nil {
		clock = shared.SystemClock()
	}
	return &ClosingBalanceHandler{service: service, jobs: jobs, clock: clock}
}

// CheckJobResponse acknowledges a queued closing run
type CheckJobResponse struct {
	JobID     string `json:"job_id"`
	CompanyID int64  `json:"company_id"`
	Trigger   string `json:"trigger"`
}

// ClosingCursorResponse is the date the next closing run will work on
type ClosingCursorResponse struct {
	CompanyID   int64  `json:"company_id"`
	ClosingDate string `json:"closing_date"`
}

// AvailableBalanceResponse is the cash a branch can disburse on a date
type AvailableBalanceResponse struct {
	BranchID  int64           `json:"branch_id"`
	Date      string          `json:"date"`
	Available decimal.Decimal `json:"available"`
}

// Check handles POST /closing-balances/check: queue a closing balance run for the caller's company.
func (h *ClosingBalanceHandler) Check(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	trigger := scheduler.TriggerLogin
	switch c.Query("trigger") {
	case "", string(scheduler.TriggerLogin):
	case string(scheduler.TriggerManual):
		trigger = scheduler.TriggerManual
	default:
		h.BadRequest(c, "trigger must be one of: login manual")
		return
	}

	jobID, err := h.jobs.Submit(companyID, trigger)
	if err != nil {
		if errors.Is(err, scheduler.ErrJobQueueFull) || errors.Is(err, scheduler.ErrSchedulerNotRunning) {
			logger.L(c.Request.Context()).Warn("Closing run not queued", zap.Error(err))
			h.ServiceUnavailable(c, "Closing queue is unavailable, retry shortly")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, CheckJobResponse{
		JobID:     jobID.String(),
		CompanyID: companyID,
		Trigger:   string(trigger),
	})
}

// Cursor handles GET /closing-balances/cursor: get the company's current closing date.
func (h *ClosingBalanceHandler) Cursor(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	date, err := h.service.CurrentClosingDate(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ClosingCursorResponse{CompanyID: companyID, ClosingDate: date.Format(shared.DateLayout)})
}

// Available handles GET /closing-balances/available: get a branch's available cash on a date.
func (h *ClosingBalanceHandler) Available(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	branchID, err := strconv.ParseInt(c.Query("branch_id"), 10, 64)
	if err != nil || branchID <= 0 {
		h.BadRequest(c, "branch_id is required")
		return
	}
	date, ok := h.dateQuery(c, "date", shared.Today(h.clock))
	if !ok {
		return
	}

	available, err := h.service.GetClosingBalance(c.Request.Context(), branchID, companyID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, AvailableBalanceResponse{
		BranchID:  branchID,
		Date:      date.Format(shared.DateLayout),
		Available: available,
	})
}

// BranchHistory handles GET /closing-balances/branches/{branch_id}: list a branch's stored closing balances.
func (h *ClosingBalanceHandler) BranchHistory(c *gin.Context) {
	rows, _, ok := h.history(c)
	if !ok {
		return
	}
	h.Success(c, rows)
}

// ExportBranchHistory handles GET /closing-balances/branches/{branch_id}/export: download a branch's closing balances as xlsx.
func (h *ClosingBalanceHandler) ExportBranchHistory(c *gin.Context) {
	rows, filename, ok := h.history(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteClosingBalances(&buf, rows); err != nil {
		h.HandleError(c, fmt.Errorf("failed to render closing balances: %w", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}

func (h *ClosingBalanceHandler) history(c *gin.Context) ([]ledger.ClosingBalance, string, bool) {
	companyID, ok := h.companyID(c)
	if !ok {
		return nil, "", false
	}
	branchID, ok := h.int64Param(c, "branch_id")
	if !ok {
		return nil, "", false
	}
	to, ok := h.dateQuery(c, "to", shared.Today(h.clock))
	if !ok {
		return nil, "", false
	}
	from, ok := h.dateQuery(c, "from", shared.AddDays(to, -historyWindowDays))
	if !ok {
		return nil, "", false
	}

	rows, err := h.service.BranchHistory(c.Request.Context(), companyID, branchID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return nil, "", false
	}
	filename := export.ClosingBalanceFilename(branchID, from.Format(shared.DateLayout), to.Format(shared.DateLayout))
	return rows, filename, true
}
