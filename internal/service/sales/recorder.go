package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/config"
	"github.com/mamadbah2/ganado/internal/domain/models"
)

const closeListingStep = "close listing"

// SaleStore persists sale records.
type SaleStore interface {
	CreateSale(ctx context.Context, sale models.Sale) (models.Sale, error)
	ListSales(ctx context.Context) ([]models.Sale, error)
	GetSale(ctx context.Context, id string) (models.Sale, error)
}

// ListingStore is the slice of the catalog the recorder touches.
type ListingStore interface {
	GetListing(ctx context.Context, id string) (models.Listing, error)
	MarkListingSold(ctx context.Context, id string) error
}

// Transactor runs fn inside a single storage transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Mirror receives a copy of every recorded sale.
type Mirror interface {
	AppendSale(ctx context.Context, sale models.Sale) error
}

// Receipt is the outcome of a recorded sale. Warnings carry failures of
// best-effort follow-ups that did not undo the sale.
type Receipt struct {
	Sale     models.Sale `json:"sale"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Recorder creates immutable sales and closes the sold listing.
type Recorder struct {
	sales    SaleStore
	listings ListingStore
	tx       Transactor
	mirror   Mirror
	store    config.StoreConfig
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewRecorder wires a recorder. Without a Transactor the sale insert and the
// listing update run as two separate writes.
func NewRecorder(sales SaleStore, listings ListingStore, store config.StoreConfig, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		sales:    sales,
		listings: listings,
		store:    store,
		location: time.Local,
		logger:   logger,
		now:      time.Now,
	}
}

// WithLocation sets the timezone calendar sale and delivery days are read in.
func (r *Recorder) WithLocation(loc *time.Location) *Recorder {
	if loc != nil {
		r.location = loc
	}
	return r
}

// WithTransactor makes RecordSale write the sale and the listing flip atomically.
func (r *Recorder) WithTransactor(tx Transactor) *Recorder {
	r.tx = tx
	return r
}

// WithMirror copies each recorded sale to m.
func (r *Recorder) WithMirror(m Mirror) *Recorder {
	r.mirror = m
	return r
}

// RecordSale validates the input, snapshots the listing into a new sale and
// marks the listing unavailable. Validation failures perform no writes. When
// the listing update fails after the sale was stored, the receipt is returned
// together with a *models.PartialFailureError.
func (r *Recorder) RecordSale(ctx context.Context, sess *models.Session, input models.SaleInput) (Receipt, error) {
	if err := input.Validate(); err != nil {
		return Receipt{}, err
	}

	listing, err := r.listings.GetListing(ctx, strings.TrimSpace(input.ProductID))
	if err != nil {
		return Receipt{}, fmt.Errorf("load listing: %w", err)
	}
	if !listing.Available {
		return Receipt{}, fmt.Errorf("listing %s: %w", listing.ID, models.ErrListingUnavailable)
	}

	sellerName, sellerContact := r.attribute(sess, input)
	sale := input.ToSale(listing, sellerName, sellerContact, r.now().In(r.location))

	var receipt Receipt
	if r.tx != nil {
		err = r.tx.WithTransaction(ctx, func(ctx context.Context) error {
			created, err := r.sales.CreateSale(ctx, sale)
			if err != nil {
				return fmt.Errorf("create sale: %w", err)
			}
			if err := r.listings.MarkListingSold(ctx, created.ProductID); err != nil {
				return fmt.Errorf("%s: %w", closeListingStep, err)
			}
			receipt.Sale = created
			return nil
		})
		if err != nil {
			return Receipt{}, err
		}
	} else {
		created, err := r.sales.CreateSale(ctx, sale)
		if err != nil {
			return Receipt{}, fmt.Errorf("create sale: %w", err)
		}
		receipt.Sale = created

		if err := r.listings.MarkListingSold(ctx, created.ProductID); err != nil {
			r.logger.Error("sale stored but listing still available",
				zap.String("sale_id", created.ID),
				zap.String("listing_id", created.ProductID),
				zap.Error(err))
			return receipt, &models.PartialFailureError{SaleID: created.ID, Step: closeListingStep, Err: err}
		}
	}

	r.logger.Info("sale recorded",
		zap.String("sale_id", receipt.Sale.ID),
		zap.String("listing_id", receipt.Sale.ProductID),
		zap.Float64("price", receipt.Sale.SalePrice))

	if r.mirror != nil {
		if err := r.mirror.AppendSale(ctx, receipt.Sale); err != nil {
			r.logger.Warn("sale mirror failed", zap.String("sale_id", receipt.Sale.ID), zap.Error(err))
			receipt.Warnings = append(receipt.Warnings, fmt.Sprintf("spreadsheet mirror failed: %v", err))
		}
	}

	return receipt, nil
}

// CloseListing re-applies the availability flip for the listing referenced by
// a stored sale. Running it more than once has no further effect.
func (r *Recorder) CloseListing(ctx context.Context, saleID string) (models.Sale, error) {
	sale, err := r.sales.GetSale(ctx, saleID)
	if err != nil {
		return models.Sale{}, fmt.Errorf("load sale: %w", err)
	}

	if err := r.listings.MarkListingSold(ctx, sale.ProductID); err != nil {
		return models.Sale{}, fmt.Errorf("%s for sale %s: %w", closeListingStep, sale.ID, err)
	}

	r.logger.Info("listing closed for sale", zap.String("sale_id", sale.ID), zap.String("listing_id", sale.ProductID))
	return sale, nil
}

// List returns every sale.
func (r *Recorder) List(ctx context.Context) ([]models.Sale, error) {
	sales, err := r.sales.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// Get loads one sale.
func (r *Recorder) Get(ctx context.Context, id string) (models.Sale, error) {
	sale, err := r.sales.GetSale(ctx, id)
	if err != nil {
		return models.Sale{}, fmt.Errorf("get sale: %w", err)
	}
	sale.SaleDate = sale.SaleDate.In(r.location)
	return sale, nil
}

// attribute picks the seller shown on the sale: the form value, then the
// logged-in name, then the store default.
func (r *Recorder) attribute(sess *models.Session, input models.SaleInput) (string, string) {
	name := strings.TrimSpace(input.SellerName)
	if name == "" && sess != nil {
		name = strings.TrimSpace(sess.Name)
	}
	if name == "" {
		name = r.store.SellerName
	}

	contact := strings.TrimSpace(input.SellerContact)
	if contact == "" {
		contact = r.store.SellerContact
	}
	return name, contact
}

// IsPartialFailure reports whether err left a stored sale with an open listing.
func IsPartialFailure(err error) (*models.PartialFailureError, bool) {
	var pf *models.PartialFailureError
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}
