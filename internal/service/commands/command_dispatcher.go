package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
	"github.com/mamadbah2/ganado/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const (
	dateFormat       = "2006-01-02"
	latestSalesShown = 5
)

// HelpText lists the owner commands.
const HelpText = "Comandos disponibles:\n" +
	"/ventas [today|week|month|year|all] resumen de ventas\n" +
	"/caja totales de caja\n" +
	"/catalogo animales disponibles y vendidos\n" +
	"/ayuda esta ayuda"

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	SalesReport(ctx context.Context, q reporting.SalesQuery) (reporting.SalesReport, error)
	LedgerReport(ctx context.Context) (reporting.LedgerReport, error)
	Reconciliation(ctx context.Context, window reporting.Window) (models.ReconciliationSnapshot, error)
	FormatLedger(summary models.LedgerSummary) string
	Currency() string
}

// Dispatcher answers parsed owner commands.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	reporting ReportingAdapter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(reporting ReportingAdapter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reporting: reporting,
		logger:    logger,
	}
}

// HandleCommand runs the command and returns the reply text.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Any("args", cmd.Args))

	switch cmd.Type {
	case models.CommandSales:
		return s.salesSummary(ctx, cmd)
	case models.CommandCash:
		report, err := s.reporting.LedgerReport(ctx)
		if err != nil {
			return "", err
		}
		return s.reporting.FormatLedger(report.Summary), nil
	case models.CommandCatalog:
		snap, err := s.reporting.Reconciliation(ctx, reporting.WindowAll)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🐄 *Catálogo*\nDisponibles: %d\nVendidos: %d", snap.Catalog.Available, snap.Catalog.Sold), nil
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) salesSummary(ctx context.Context, cmd models.Command) (string, error) {
	window := reporting.WindowWeek
	if len(cmd.Args) > 0 {
		w, err := reporting.ParseDateWindow(cmd.Args[0])
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		window = w
	}

	report, err := s.reporting.SalesReport(ctx, reporting.SalesQuery{Window: window, Sort: reporting.DefaultSort})
	if err != nil {
		return "", err
	}

	currency := s.reporting.Currency()
	var b strings.Builder
	fmt.Fprintf(&b, "💰 *Ventas (%s)*\n", window)
	fmt.Fprintf(&b, "Cantidad: %d\n", report.Summary.Count)
	fmt.Fprintf(&b, "Ingresos: %s\n", reporting.FormatMoney(report.Summary.Revenue, currency))
	fmt.Fprintf(&b, "Promedio: %s", reporting.FormatMoney(report.Summary.Average, currency))

	for i, sale := range report.Sales {
		if i == latestSalesShown {
			fmt.Fprintf(&b, "\n… y %d más", len(report.Sales)-latestSalesShown)
			break
		}
		fmt.Fprintf(&b, "\n• %s %s → %s (%s)",
			sale.SaleDate.Format(dateFormat),
			sale.ProductName,
			sale.BuyerName,
			reporting.FormatMoneyFloat(sale.SalePrice, currency))
	}
	return b.String(), nil
}
