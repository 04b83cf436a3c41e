package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	ledgerapp "github.com/hpfin/backend/internal/application/ledger"
	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/hpfin/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// OpeningBalanceService is the application surface used by OpeningBalanceHandler
type OpeningBalanceService interface {
	GetOpeningBalance(ctx context.Context, companyID int64, scope ledger.Scope, date time.Time) (decimal.Decimal, error)
	GetDaySheet(ctx context.Context, companyID int64, scope ledger.Scope, date time.Time) (*ledgerapp.DaySheet, error)
}

// OpeningBalanceHandler handles opening balance and day sheet endpoints
type OpeningBalanceHandler struct {
	BaseHandler
	service OpeningBalanceService
	clock   shared.Clock
}

// NewOpeningBalanceHandler creates a new OpeningBalanceHandler
func NewOpeningBalanceHandler(service OpeningBalanceService, clock shared.Clock) *OpeningBalanceHandler {
	if clock == nil {
		clock = shared.SystemClock()
	}
	return &OpeningBalanceHandler{service: service, clock: clock}
}

// ScopeQuery selects a branch or the whole company. The company ID defaults
// to the caller's own.
type ScopeQuery struct {
	Scope string `form:"scope" binding:"required,oneof=branch company"`
	ID    int64  `form:"id" binding:"omitempty,gt=0"`
	Date  string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// OpeningBalanceResponse is the opening cash of a scope on a date
type OpeningBalanceResponse struct {
	Scope   ledger.Scope    `json:"scope"`
	Date    string          `json:"date"`
	Opening decimal.Decimal `json:"opening"`
}

// Opening handles GET /opening-balances: get the opening balance of a branch or company.
func (h *OpeningBalanceHandler) Opening(c *gin.Context) {
	companyID, scope, date, ok := h.scopeQuery(c)
	if !ok {
		return
	}
	opening, err := h.service.GetOpeningBalance(c.Request.Context(), companyID, scope, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, OpeningBalanceResponse{Scope: scope, Date: date.Format(shared.DateLayout), Opening: opening})
}

// DaySheet handles GET /opening-balances/day-sheet: get the day sheet of a branch or company.
func (h *OpeningBalanceHandler) DaySheet(c *gin.Context) {
	companyID, scope, date, ok := h.scopeQuery(c)
	if !ok {
		return
	}
	sheet, err := h.service.GetDaySheet(c.Request.Context(), companyID, scope, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sheet)
}

func (h *OpeningBalanceHandler) scopeQuery(c *gin.Context) (int64, ledger.Scope, time.Time, bool) {
	companyID, ok := h.companyID(c)
	if !ok {
		return 0, ledger.Scope{}, time.Time{}, false
	}
	var q ScopeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return 0, ledger.Scope{}, time.Time{}, false
	}

	scope := ledger.Scope{Kind: ledger.ScopeKind(q.Scope), ID: q.ID}
	if scope.ID == 0 {
		if scope.Kind == ledger.ScopeBranch {
			h.BadRequest(c, "id is required for branch scope")
			return 0, ledger.Scope{}, time.Time{}, false
		}
		scope.ID = companyID
	}
	date, ok := h.dateQuery(c, "date", shared.Today(h.clock))
	if !ok {
		return 0, ledger.Scope{}, time.Time{}, false
	}
	return companyID, scope, date, true
}
