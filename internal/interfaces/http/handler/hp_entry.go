package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	hpentryapp "github.com/hpfin/backend/internal/application/hpentry"
	"github.com/hpfin/backend/internal/domain/hpentry"
	"github.com/hpfin/backend/internal/interfaces/http/dto"
	"github.com/hpfin/backend/internal/interfaces/http/middleware"
)

// HpEntryService is the application surface used by HpEntryHandler
type HpEntryService interface {
	CheckAmounts(ctx context.Context, companyID int64, req hpentryapp.CheckAmountsRequest) (*hpentryapp.CheckResult, error)
	CheckFundingRestriction(ctx context.Context, companyID int64, req hpentryapp.CheckFundingRequest) (*hpentryapp.CheckResult, error)
	Get(ctx context.Context, companyID, id int64) (*hpentry.HpEntry, error)
	Create(ctx context.Context, companyID int64, req hpentryapp.HpEntryRequest) (*hpentry.HpEntry, error)
	Update(ctx context.Context, companyID, id int64, req hpentryapp.HpEntryRequest) (*hpentry.HpEntry, error)
	Delete(ctx context.Context, companyID, id int64) error
}

// HpEntryHandler handles HP entry endpoints
type HpEntryHandler struct {
	BaseHandler
	service HpEntryService
}

// NewHpEntryHandler creates a new HpEntryHandler
func NewHpEntryHandler(service HpEntryService) *HpEntryHandler {
	return &HpEntryHandler{service: service}
}

// CheckAmounts handles POST /hp-entries/check-amounts: check a party debit against the branch PDR limit.
func (h *HpEntryHandler) CheckAmounts(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req hpentryapp.CheckAmountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.CheckAmounts(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, normalizeCheck(result))
}

// CheckFunding handles POST /hp-entries/check-funding: check a funded total against the vehicle funding ceiling.
func (h *HpEntryHandler) CheckFunding(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req hpentryapp.CheckFundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.CheckFundingRestriction(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, normalizeCheck(result))
}

// Create handles POST /hp-entries: create an HP entry and its party debit.
func (h *HpEntryHandler) Create(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	var req hpentryapp.HpEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entry, err := h.service.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Get handles GET /hp-entries/{id}: get an HP entry.
func (h *HpEntryHandler) Get(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	id, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.Get(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Update handles PUT /hp-entries/{id}: replace an HP entry and reconcile its party debit.
func (h *HpEntryHandler) Update(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	id, ok := h.int64Param(c, "id")
	if !ok {
		return
	}
	var req hpentryapp.HpEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entry, err := h.service.Update(c.Request.Context(), companyID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Delete handles DELETE /hp-entries/{id}: delete an HP entry and its party debits.
func (h *HpEntryHandler) Delete(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	id, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), companyID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func normalizeCheck(result *hpentryapp.CheckResult) *hpentryapp.CheckResult {
	if result.Code != "" {
		result.Code = dto.NormalizeErrorCode(result.Code)
	}
	return result
}
