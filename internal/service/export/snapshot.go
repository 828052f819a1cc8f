package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mamadbah2/ganado/internal/domain/models"
	"github.com/mamadbah2/ganado/internal/service/reporting"
)

const (
	// PageWidthMM is the fixed width of the snapshot page.
	PageWidthMM = 210.0

	imageWidth  = 560
	marginPx    = 24
	lineHeight  = 18
	wrapColumns = (imageWidth - 2*marginPx) / 7
)

var (
	inkColor    = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	accentColor = color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
)

// SnapshotOptions controls the rendered sale document.
type SnapshotOptions struct {
	StoreName string
	Currency  string
}

// SnapshotFilename names the PDF of one sale.
func SnapshotFilename(sale models.Sale) string {
	return fmt.Sprintf("venta_%s.pdf", sale.ShortID())
}

type line struct {
	text   string
	accent bool
}

// sheet collects the lines of a snapshot. Free text is wrapped to the canvas.
type sheet struct {
	lines []line
}

func (s *sheet) heading(text string) {
	s.lines = append(s.lines, line{text: text, accent: true})
}

func (s *sheet) text(text string) {
	for _, l := range wrap(text, wrapColumns) {
		s.lines = append(s.lines, line{text: l})
	}
}

func (s *sheet) blank() {
	s.lines = append(s.lines, line{})
}

func snapshotLines(sale models.Sale, opts SnapshotOptions) []line {
	var s sheet
	s.heading(opts.StoreName)
	s.text("Comprobante de venta #" + sale.ShortID())
	s.text("Fecha: " + sale.SaleDate.Format("2006-01-02"))

	s.blank()
	s.heading("PRODUCTO")
	s.text("Nombre: " + sale.ProductName)
	if sale.Breed != "" {
		s.text("Raza: " + sale.Breed)
	}
	if sale.Weight > 0 {
		s.text(fmt.Sprintf("Peso: %s kg", formatNumber(sale.Weight)))
	}

	s.blank()
	s.heading("COMPRADOR")
	s.text("Nombre: " + sale.BuyerName)
	s.text("Teléfono: " + sale.BuyerPhone)
	if sale.BuyerEmail != "" {
		s.text("Email: " + sale.BuyerEmail)
	}
	if sale.BuyerAddress != "" {
		s.text("Dirección: " + sale.BuyerAddress)
	}

	s.blank()
	s.heading("PAGO Y ENTREGA")
	s.text("Precio: " + reporting.FormatMoneyFloat(sale.SalePrice, opts.Currency))
	s.text("Método de pago: " + sale.PaymentMethod.Label())
	s.text("Entrega: " + sale.DeliveryMethod.Label())
	if sale.DeliveryDate != nil {
		s.text("Fecha de entrega: " + sale.DeliveryDate.Format("2006-01-02"))
	}
	if sale.DeliveryAddress != "" {
		s.text("Dirección de entrega: " + sale.DeliveryAddress)
	}

	s.blank()
	s.heading("VENDEDOR")
	s.text(sale.SellerName)
	if sale.SellerContact != "" {
		s.text("Contacto: " + sale.SellerContact)
	}

	if obs := strings.TrimSpace(sale.Observations); obs != "" {
		s.blank()
		s.heading("OBSERVACIONES")
		s.text(obs)
	}
	return s.lines
}

// SnapshotImage draws the sale detail on a white canvas. Its height grows
// with the amount of detail.
func SnapshotImage(sale models.Sale, opts SnapshotOptions) *image.RGBA {
	lines := snapshotLines(sale, opts)
	height := 2*marginPx + len(lines)*lineHeight

	img := image.NewRGBA(image.Rect(0, 0, imageWidth, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ink := image.NewUniform(inkColor)
	accent := image.NewUniform(accentColor)

	d := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	for i, l := range lines {
		d.Src = ink
		if l.accent {
			d.Src = accent
		}
		d.Dot = fixed.P(marginPx, marginPx+(i+1)*lineHeight-5)
		d.DrawString(l.text)
	}
	return img
}

// PageHeightMM scales the page height to keep the image aspect ratio at the
// fixed page width.
func PageHeightMM(bounds image.Rectangle) float64 {
	return PageWidthMM * float64(bounds.Dy()) / float64(bounds.Dx())
}

// RenderSaleSnapshot rasterizes the sale into a single-page PDF.
func RenderSaleSnapshot(w io.Writer, sale models.Sale, opts SnapshotOptions) error {
	img := SnapshotImage(sale, opts)

	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return fmt.Errorf("encode snapshot image: %w", err)
	}

	height := PageHeightMM(img.Bounds())
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: PageWidthMM, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Venta "+sale.ShortID(), true)
	pdf.AddPage()

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	name := "sale-" + sale.ShortID()
	pdf.RegisterImageOptionsReader(name, imgOpts, &raster)
	pdf.ImageOptions(name, 0, 0, PageWidthMM, height, false, imgOpts, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render snapshot pdf: %w", err)
	}
	return nil
}

// wrap breaks text on spaces into lines of at most width runes. Words longer
// than width are split.
func wrap(text string, width int) []string {
	var out []string
	var current []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(current) > 0 {
				out = append(out, string(current))
				current = nil
			}
			out = append(out, string(w[:width]))
			w = w[width:]
		}
		if len(w) == 0 {
			continue
		}
		if len(current) > 0 && len(current)+1+len(w) > width {
			out = append(out, string(current))
			current = nil
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, w...)
	}
	if len(current) > 0 {
		out = append(out, string(current))
	}
	return out
}
