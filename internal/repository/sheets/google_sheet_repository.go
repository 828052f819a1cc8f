package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/ganado/internal/config"
	"github.com/mamadbah2/ganado/internal/domain/models"
)

const (
	salesRange = "Ventas!A:L"
	dayLayout  = "2006-01-02"
)

// SalesSheet copies recorded sales into the owner's spreadsheet, one row per
// sale, in the Ventas tab.
type SalesSheet struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with the service account file and
// targets the configured spreadsheet.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*SalesSheet, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}
	return newSalesSheet(svc, cfg.SpreadsheetID, logger), nil
}

func newSalesSheet(svc *sheetsapi.Service, spreadsheetID string, logger *zap.Logger) *SalesSheet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesSheet{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}
}

// AppendSale adds the sale below the last filled row. Cells are entered as if
// typed by a user so the sheet parses dates and numbers.
func (s *SalesSheet) AppendSale(ctx context.Context, sale models.Sale) error {
	body := &sheetsapi.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]interface{}{saleRow(sale)},
	}

	resp, err := s.values.Append(s.spreadsheetID, salesRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append sale %s to sheet: %w", sale.ID, err)
	}

	var updatedRange string
	if resp.Updates != nil {
		updatedRange = resp.Updates.UpdatedRange
	}
	s.logger.Debug("sale appended to sheet",
		zap.String("sale_id", sale.ID),
		zap.String("updated_range", updatedRange))
	return nil
}

// saleRow lays the sale out in the sheet's column order: identity, day,
// product, breed, weight, buyer, phone, email, price, payment, delivery, seller.
func saleRow(sale models.Sale) []interface{} {
	return []interface{}{
		sale.ID,
		sale.SaleDate.Format(dayLayout),
		sale.ProductName,
		sale.Breed,
		sale.Weight,
		sale.BuyerName,
		sale.BuyerPhone,
		sale.BuyerEmail,
		sale.SalePrice,
		sale.PaymentMethod.Label(),
		sale.DeliveryMethod.Label(),
		sale.SellerName,
	}
}
