package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
	"github.com/mamadbah2/ganado/pkg/clients/cloudinary"
)

const (
	listingFormField = "listing"
	mediaFormField   = "media"
)

// Catalog is the listing service used by the HTTP layer.
type Catalog interface {
	List(ctx context.Context) ([]models.Listing, error)
	Get(ctx context.Context, id string) (models.Listing, error)
	Create(ctx context.Context, input models.ListingInput, media []cloudinary.File) (models.Listing, error)
	Update(ctx context.Context, id string, patch models.ListingPatch, media []cloudinary.File) (models.Listing, error)
	Delete(ctx context.Context, id string) error
}

// LivestockHandler serves the catalog endpoints.
type LivestockHandler struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewLivestockHandler constructs the catalog endpoints.
func NewLivestockHandler(catalog Catalog, logger *zap.Logger) *LivestockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LivestockHandler{catalog: catalog, logger: logger}
}

// List returns the catalog.
func (h *LivestockHandler) List(c *gin.Context) {
	listings, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// Get returns one listing.
func (h *LivestockHandler) Get(c *gin.Context) {
	listing, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Create accepts either a JSON body or a multipart form with a JSON
// "listing" field and "media" files.
func (h *LivestockHandler) Create(c *gin.Context) {
	var input models.ListingInput
	media, closeMedia, err := h.bind(c, &input)
	if err != nil {
		badRequest(c, h.logger, "invalid listing payload", err)
		return
	}
	defer closeMedia()

	listing, err := h.catalog.Create(c.Request.Context(), input, media)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// Update applies a partial update, appending any uploaded media.
func (h *LivestockHandler) Update(c *gin.Context) {
	var patch models.ListingPatch
	media, closeMedia, err := h.bind(c, &patch)
	if err != nil {
		badRequest(c, h.logger, "invalid listing payload", err)
		return
	}
	defer closeMedia()

	listing, err := h.catalog.Update(c.Request.Context(), c.Param("id"), patch, media)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Delete removes a listing.
func (h *LivestockHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bind decodes the listing body into dst and opens any uploaded media. The
// returned func closes the opened files.
func (h *LivestockHandler) bind(c *gin.Context, dst any) ([]cloudinary.File, func(), error) {
	noop := func() {}

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(dst); err != nil {
			return nil, noop, err
		}
		return nil, noop, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, fmt.Errorf("parse multipart form: %w", err)
	}

	raw := form.Value[listingFormField]
	if len(raw) == 0 {
		return nil, noop, errors.New("missing listing field")
	}
	if err := json.Unmarshal([]byte(raw[0]), dst); err != nil {
		return nil, noop, fmt.Errorf("decode listing field: %w", err)
	}

	return openMedia(form.File[mediaFormField])
}

func openMedia(headers []*multipart.FileHeader) ([]cloudinary.File, func(), error) {
	files := make([]cloudinary.File, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	closeAll := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		closers = append(closers, f)
		files = append(files, cloudinary.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Reader:      f,
		})
	}
	return files, closeAll, nil
}
