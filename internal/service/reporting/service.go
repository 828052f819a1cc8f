package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

// SaleLister reads the sales collection.
type SaleLister interface {
	ListSales(ctx context.Context) ([]models.Sale, error)
}

// MovementLister reads the cash ledger.
type MovementLister interface {
	ListMovements(ctx context.Context) ([]models.CashMovement, error)
}

// ListingLister reads the catalog.
type ListingLister interface {
	ListListings(ctx context.Context) ([]models.Listing, error)
}

// SalesReport is the filtered and sorted sales view with its totals.
type SalesReport struct {
	Sales   []models.Sale       `json:"sales"`
	Summary models.SalesSummary `json:"summary"`
}

// LedgerReport lists the register movements with their totals.
type LedgerReport struct {
	Movements []models.CashMovement `json:"movements"`
	Summary   models.LedgerSummary  `json:"summary"`
}

// Service recomputes aggregates over freshly loaded collections on every call.
type Service struct {
	sales    SaleLister
	ledger   MovementLister
	catalog  ListingLister
	currency string
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(sales SaleLister, ledger MovementLister, catalog ListingLister, currency string, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &Service{
		sales:    sales,
		ledger:   ledger,
		catalog:  catalog,
		currency: currency,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// Currency returns the ISO code used when formatting amounts.
func (s *Service) Currency() string {
	return s.currency
}

// SalesReport loads the sales, filters, sorts and summarizes them. Sale dates
// are returned in the report location.
func (s *Service) SalesReport(ctx context.Context, q SalesQuery) (SalesReport, error) {
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return SalesReport{}, fmt.Errorf("load sales: %w", err)
	}

	for i := range sales {
		sales[i].SaleDate = sales[i].SaleDate.In(s.location)
	}

	filtered := SortSales(FilterSales(sales, q, s.now().In(s.location)), q.Sort)
	return SalesReport{Sales: filtered, Summary: SummarizeSales(filtered)}, nil
}

// LedgerReport loads the movements and totals them.
func (s *Service) LedgerReport(ctx context.Context) (LedgerReport, error) {
	movements, err := s.ledger.ListMovements(ctx)
	if err != nil {
		return LedgerReport{}, fmt.Errorf("load cash movements: %w", err)
	}
	return LedgerReport{Movements: movements, Summary: SummarizeLedger(movements)}, nil
}

// Reconciliation builds the combined catalog, sales and ledger snapshot for a
// window. The ledger is always totalled in full.
func (s *Service) Reconciliation(ctx context.Context, window Window) (models.ReconciliationSnapshot, error) {
	now := s.now().In(s.location)

	listings, err := s.catalog.ListListings(ctx)
	if err != nil {
		return models.ReconciliationSnapshot{}, fmt.Errorf("load listings: %w", err)
	}

	report, err := s.SalesReport(ctx, SalesQuery{Window: window, Sort: DefaultSort})
	if err != nil {
		return models.ReconciliationSnapshot{}, err
	}

	ledger, err := s.LedgerReport(ctx)
	if err != nil {
		return models.ReconciliationSnapshot{}, err
	}

	snapshot := models.ReconciliationSnapshot{
		Window:    string(window),
		To:        now,
		Catalog:   SummarizeCatalog(listings),
		Sales:     report.Summary,
		Ledger:    ledger.Summary,
		CreatedAt: now,
	}
	if start, ok := WindowStart(window, now); ok {
		snapshot.From = &start
	}

	s.logger.Debug("reconciliation computed",
		zap.String("window", string(window)),
		zap.Int("sales", snapshot.Sales.Count),
		zap.Int("available", snapshot.Catalog.Available))
	return snapshot, nil
}

var windowTitles = map[string]string{
	string(WindowToday): "hoy",
	string(WindowWeek):  "últimos 7 días",
	string(WindowMonth): "último mes",
	string(WindowYear):  "último año",
	string(WindowAll):   "histórico",
}

// FormatReconciliation renders the snapshot as a WhatsApp text message.
func (s *Service) FormatReconciliation(snap models.ReconciliationSnapshot) string {
	title := windowTitles[snap.Window]
	if title == "" {
		title = snap.Window
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Resumen (%s)*\n", title)
	if snap.From != nil {
		fmt.Fprintf(&b, "%s → %s\n", snap.From.Format("2006-01-02"), snap.To.Format("2006-01-02"))
	}
	b.WriteString("\n🐄 *Catálogo*\n")
	fmt.Fprintf(&b, "Disponibles: %d\nVendidos: %d\n", snap.Catalog.Available, snap.Catalog.Sold)
	b.WriteString("\n💰 *Ventas*\n")
	fmt.Fprintf(&b, "Cantidad: %d\n", snap.Sales.Count)
	fmt.Fprintf(&b, "Ingresos: %s\n", FormatMoney(snap.Sales.Revenue, s.currency))
	fmt.Fprintf(&b, "Promedio: %s\n", FormatMoney(snap.Sales.Average, s.currency))
	b.WriteString("\n")
	s.writeLedger(&b, snap.Ledger)
	return b.String()
}

// FormatLedger renders the ledger totals as a WhatsApp text message.
func (s *Service) FormatLedger(summary models.LedgerSummary) string {
	var b strings.Builder
	s.writeLedger(&b, summary)
	return b.String()
}

func (s *Service) writeLedger(b *strings.Builder, summary models.LedgerSummary) {
	b.WriteString("🧾 *Caja*\n")
	fmt.Fprintf(b, "Entradas: %s\n", FormatMoney(summary.TotalIncome, s.currency))
	fmt.Fprintf(b, "Gastos: %s\n", FormatMoney(summary.TotalExpenses, s.currency))
	fmt.Fprintf(b, "Saldo: %s\n", FormatMoney(summary.FinalBalance, s.currency))
	fmt.Fprintf(b, "Billetes: %s\n", FormatMoney(summary.TotalBills, s.currency))
	fmt.Fprintf(b, "Monedas: %s", FormatMoney(summary.TotalCoins, s.currency))
}
