package main

import (
	"github.com/gin-gonic/gin"
	"github.com/hpfin/backend/internal/interfaces/http/handler"
	"github.com/hpfin/backend/internal/interfaces/http/router"
)

// handlers groups everything registerRoutes mounts
type handlers struct {
	hpEntries *handler.HpEntryHandler
	closing   *handler.ClosingBalanceHandler
	opening   *handler.OpeningBalanceHandler
	system    *handler.SystemHandler
}

// registerRoutes mounts /health on the engine and the business API under /api/v1.
// apiMiddleware runs for the business API only.
func registerRoutes(engine *gin.Engine, h handlers, apiMiddleware ...gin.HandlerFunc) []*router.DomainGroup {
	engine.GET("/health", h.system.Health)

	hpEntries := router.NewDomainGroup("hp-entries", "/hp-entries").
		POST("/check-amounts", h.hpEntries.CheckAmounts).
		POST("/check-funding", h.hpEntries.CheckFunding).
		POST("", h.hpEntries.Create).
		GET("/:id", h.hpEntries.Get).
		PUT("/:id", h.hpEntries.Update).
		DELETE("/:id", h.hpEntries.Delete)

	closing := router.NewDomainGroup("closing-balances", "/closing-balances").
		POST("/check", h.closing.Check).
		GET("/cursor", h.closing.Cursor).
		GET("/available", h.closing.Available).
		GET("/branches/:branch_id", h.closing.BranchHistory).
		GET("/branches/:branch_id/export", h.closing.ExportBranchHistory)

	opening := router.NewDomainGroup("opening-balances", "/opening-balances").
		GET("", h.opening.Opening).
		GET("/day-sheet", h.opening.DaySheet)

	groups := []*router.DomainGroup{hpEntries, closing, opening}
	r := router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithMiddleware(apiMiddleware...))
	for _, g := range groups {
		r.Register(g)
	}
	r.Setup()
	return groups
}
