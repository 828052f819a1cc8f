package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

var csvHeader = []string{
	"ID", "Fecha", "Producto", "Raza", "Peso (kg)", "Comprador", "Teléfono",
	"Email", "Dirección", "Precio", "Método de Pago", "Vendedor",
}

// CSVFilename names the export after the given day.
func CSVFilename(now time.Time) string {
	return fmt.Sprintf("ventas_%s.csv", now.Format("2006-01-02"))
}

// WriteSalesCSV writes a header line and one line per sale, in the given
// order. Every field is quoted and embedded quotes are doubled. An empty list
// is refused with models.ErrEmptyExport and nothing is written.
func WriteSalesCSV(w io.Writer, sales []models.Sale) error {
	if len(sales) == 0 {
		return models.ErrEmptyExport
	}

	bw := bufio.NewWriter(w)
	if err := writeRecord(bw, csvHeader); err != nil {
		return err
	}
	for _, sale := range sales {
		if err := writeRecord(bw, saleRecord(sale)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func saleRecord(s models.Sale) []string {
	return []string{
		s.ShortID(),
		s.SaleDate.Format("2006-01-02"),
		s.ProductName,
		s.Breed,
		formatNumber(s.Weight),
		s.BuyerName,
		s.BuyerPhone,
		s.BuyerEmail,
		s.BuyerAddress,
		formatNumber(s.SalePrice),
		s.PaymentMethod.Label(),
		s.SellerName,
	}
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
