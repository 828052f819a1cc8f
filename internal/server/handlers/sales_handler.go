package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
	"github.com/mamadbah2/ganado/internal/service/export"
	"github.com/mamadbah2/ganado/internal/service/reporting"
	"github.com/mamadbah2/ganado/internal/service/sales"
)

// SaleRecorder records and reads sales.
type SaleRecorder interface {
	RecordSale(ctx context.Context, sess *models.Session, input models.SaleInput) (sales.Receipt, error)
	CloseListing(ctx context.Context, saleID string) (models.Sale, error)
	Get(ctx context.Context, id string) (models.Sale, error)
}

// SalesReporter returns the filtered sales view.
type SalesReporter interface {
	SalesReport(ctx context.Context, q reporting.SalesQuery) (reporting.SalesReport, error)
}

// SalesHandler serves the owner's sales endpoints.
type SalesHandler struct {
	recorder SaleRecorder
	reporter SalesReporter
	snapshot export.SnapshotOptions
	logger   *zap.Logger
	now      func() time.Time
}

// NewSalesHandler constructs the sales endpoints.
func NewSalesHandler(recorder SaleRecorder, reporter SalesReporter, snapshot export.SnapshotOptions, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{
		recorder: recorder,
		reporter: reporter,
		snapshot: snapshot,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the filtered, sorted sales with their totals.
func (h *SalesHandler) List(c *gin.Context) {
	query, err := salesQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	report, err := h.reporter.SalesReport(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Create records a sale. A sale stored without closing its listing answers
// 500 with the stored sale so the client can run the compensation.
func (h *SalesHandler) Create(c *gin.Context) {
	var input models.SaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, "invalid sale payload", err)
		return
	}

	receipt, err := h.recorder.RecordSale(c.Request.Context(), CurrentSession(c), input)
	if pf, ok := sales.IsPartialFailure(err); ok {
		h.logger.Error("partial sale failure", zap.String("sale_id", pf.SaleID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":        err.Error(),
			"sale":         receipt.Sale,
			"compensation": fmt.Sprintf("/api/sales/%s/close-listing", pf.SaleID),
		})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

// Get returns one sale.
func (h *SalesHandler) Get(c *gin.Context) {
	sale, err := h.recorder.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// CloseListing re-applies the listing update for a stored sale.
func (h *SalesHandler) CloseListing(c *gin.Context) {
	sale, err := h.recorder.CloseListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// ExportCSV downloads the filtered, sorted view as CSV.
func (h *SalesHandler) ExportCSV(c *gin.Context) {
	query, err := salesQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	report, err := h.reporter.SalesReport(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSalesCSV(&buf, report.Sales); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.CSVFilename(h.now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// SnapshotPDF downloads a one-page PDF of a sale.
func (h *SalesHandler) SnapshotPDF(c *gin.Context) {
	sale, err := h.recorder.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := export.RenderSaleSnapshot(&buf, sale, h.snapshot); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.SnapshotFilename(sale)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func salesQuery(c *gin.Context) (reporting.SalesQuery, error) {
	window, err := reporting.ParseDateWindow(c.Query("range"))
	if err != nil {
		return reporting.SalesQuery{}, err
	}
	order, err := reporting.ParseSort(c.Query("sort"))
	if err != nil {
		return reporting.SalesQuery{}, err
	}
	return reporting.SalesQuery{Search: c.Query("search"), Window: window, Sort: order}, nil
}
