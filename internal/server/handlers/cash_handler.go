package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
	"github.com/mamadbah2/ganado/internal/service/reporting"
)

// CashLedger mutates the cash register.
type CashLedger interface {
	CreateMovement(ctx context.Context, input models.CashMovementInput) (models.CashMovement, error)
	UpdateMovement(ctx context.Context, id string, patch models.CashMovementPatch) (models.CashMovement, error)
	DeleteMovement(ctx context.Context, id string) error
}

// LedgerReporter lists the movements with their totals.
type LedgerReporter interface {
	LedgerReport(ctx context.Context) (reporting.LedgerReport, error)
}

// CashHandler serves the cash register endpoints.
type CashHandler struct {
	ledger   CashLedger
	reporter LedgerReporter
	logger   *zap.Logger
}

// NewCashHandler constructs the cash register endpoints.
func NewCashHandler(ledger CashLedger, reporter LedgerReporter, logger *zap.Logger) *CashHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CashHandler{ledger: ledger, reporter: reporter, logger: logger}
}

// List returns the movements and the register totals.
func (h *CashHandler) List(c *gin.Context) {
	report, err := h.reporter.LedgerReport(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Create records a movement.
func (h *CashHandler) Create(c *gin.Context) {
	var input models.CashMovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, "invalid cash movement payload", err)
		return
	}

	movement, err := h.ledger.CreateMovement(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

// Update replaces the provided fields of a movement.
func (h *CashHandler) Update(c *gin.Context) {
	var patch models.CashMovementPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.logger, "invalid cash movement payload", err)
		return
	}

	movement, err := h.ledger.UpdateMovement(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, movement)
}

// Delete removes a movement.
func (h *CashHandler) Delete(c *gin.Context) {
	if err := h.ledger.DeleteMovement(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
