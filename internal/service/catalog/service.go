package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
	"github.com/mamadbah2/ganado/pkg/clients/cloudinary"
)

// Store persists listings.
type Store interface {
	ListListings(ctx context.Context) ([]models.Listing, error)
	GetListing(ctx context.Context, id string) (models.Listing, error)
	CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error)
	UpdateListing(ctx context.Context, id string, patch models.ListingPatch) (models.Listing, error)
	DeleteListing(ctx context.Context, id string) error
}

var allowedFormats = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
	"mp4": true, "webm": true,
}

// Service manages the livestock catalog and its media.
type Service struct {
	store    Store
	uploader cloudinary.Uploader
	maxFiles int
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the catalog. A nil uploader rejects requests carrying media.
func NewService(store Store, uploader cloudinary.Uploader, maxFiles int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		uploader: uploader,
		maxFiles: maxFiles,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]models.Listing, error) {
	listings, err := s.store.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

// Get loads one listing.
func (s *Service) Get(ctx context.Context, id string) (models.Listing, error) {
	listing, err := s.store.GetListing(ctx, id)
	if err != nil {
		return models.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return listing, nil
}

// Create validates the listing, uploads its media and stores it as available.
func (s *Service) Create(ctx context.Context, input models.ListingInput, media []cloudinary.File) (models.Listing, error) {
	if err := input.Validate(); err != nil {
		return models.Listing{}, err
	}
	if err := s.checkMedia(media); err != nil {
		return models.Listing{}, err
	}

	images, videos, err := s.upload(ctx, media)
	if err != nil {
		return models.Listing{}, err
	}

	listing := input.ToListing(s.now())
	listing.Images = append(listing.Images, images...)
	listing.Videos = append(listing.Videos, videos...)

	created, err := s.store.CreateListing(ctx, listing)
	if err != nil {
		return models.Listing{}, fmt.Errorf("create listing: %w", err)
	}

	s.logger.Info("listing created",
		zap.String("id", created.ID),
		zap.Int("images", len(created.Images)),
		zap.Int("videos", len(created.Videos)))
	return created, nil
}

// Update applies a partial update. New media is appended to the stored lists.
// Availability is never written here; only a recorded sale closes a listing.
func (s *Service) Update(ctx context.Context, id string, patch models.ListingPatch, media []cloudinary.File) (models.Listing, error) {
	if err := patch.Validate(); err != nil {
		return models.Listing{}, err
	}
	if err := s.checkMedia(media); err != nil {
		return models.Listing{}, err
	}

	current, err := s.store.GetListing(ctx, id)
	if err != nil {
		return models.Listing{}, fmt.Errorf("update listing: %w", err)
	}

	images, videos, err := s.upload(ctx, media)
	if err != nil {
		return models.Listing{}, err
	}
	patch.AppendImages = append(patch.AppendImages, images...)
	patch.AppendVideos = append(patch.AppendVideos, videos...)

	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.store.UpdateListing(ctx, id, patch)
	if err != nil {
		return models.Listing{}, fmt.Errorf("update listing: %w", err)
	}
	return updated, nil
}

// Delete removes a listing.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteListing(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	s.logger.Info("listing deleted", zap.String("id", id))
	return nil
}

func (s *Service) checkMedia(media []cloudinary.File) error {
	if len(media) == 0 {
		return nil
	}
	if s.uploader == nil {
		return models.NewValidationError("media", "media uploads are not configured")
	}
	if len(media) > s.maxFiles {
		return models.NewValidationError("media", fmt.Sprintf("at most %d files per request", s.maxFiles))
	}
	for _, f := range media {
		if _, err := classify(f); err != nil {
			return err
		}
	}
	return nil
}

type mediaKind int

const (
	mediaImage mediaKind = iota
	mediaVideo
)

// classify sorts a file into images or videos by content type and checks the
// extension against the accepted formats.
func classify(f cloudinary.File) (mediaKind, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), ".")
	if !allowedFormats[ext] {
		return 0, models.NewValidationError("media", fmt.Sprintf("%s: format not allowed", f.Name))
	}

	switch ct := strings.ToLower(f.ContentType); {
	case strings.HasPrefix(ct, "image/"):
		return mediaImage, nil
	case strings.HasPrefix(ct, "video/"):
		return mediaVideo, nil
	}
	return 0, models.NewValidationError("media", fmt.Sprintf("%s: only images and videos are accepted", f.Name))
}

func (s *Service) upload(ctx context.Context, media []cloudinary.File) ([]string, []string, error) {
	var images, videos []string
	for _, f := range media {
		kind, err := classify(f)
		if err != nil {
			return nil, nil, err
		}

		res, err := s.uploader.Upload(ctx, f)
		if err != nil {
			return nil, nil, fmt.Errorf("upload %s: %w: %w", f.Name, models.ErrStorage, err)
		}

		if kind == mediaVideo {
			videos = append(videos, res.URL)
		} else {
			images = append(images, res.URL)
		}
	}
	return images, videos, nil
}
