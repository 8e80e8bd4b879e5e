package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/repository/storage"
	"github.com/ledgerai/ledgerai-backend/internal/websocket"

	// WebP decode support for image.Decode
	_ "golang.org/x/image/webp"
)

const (
	MaxReceiptSize = 5 * 1024 * 1024 // 5MB
	MinImageWidth  = 50
	MinImageHeight = 50
	ThumbnailWidth = 200
	DisplayWidth   = 800
	JPEGQuality    = 85
)

var (
	ErrReceiptTooLarge          = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat     = errors.New("invalid format. Supported: JPEG, PNG, WebP, PDF")
	ErrReceiptImageTooSmall     = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData       = errors.New("invalid image data")
	ErrReceiptStorageNotEnabled = errors.New("receipt storage not configured")
)

// AllowedReceiptExtensions maps extensions to content types
var AllowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// ReceiptMetadata contains presigned URLs for the stored receipt variants.
// PDF receipts only carry an original URL.
type ReceiptMetadata struct {
	TransactionID string `json:"transactionId"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
	DisplayURL    string `json:"displayUrl,omitempty"`
	OriginalURL   string `json:"originalUrl"`

	// originalPath is the stored object path linked to the transaction row;
	// it is not part of the response body.
	originalPath string
}

// ReceiptService handles receipt processing and storage
type ReceiptService struct {
	transactionRepo domain.TransactionRepository
	storage         storage.ObjectRepository
	eventPublisher  websocket.EventPublisher
}

// NewReceiptService creates a new ReceiptService. The object repository may
// be nil, in which case receipt uploads are unavailable.
func NewReceiptService(transactionRepo domain.TransactionRepository, objectRepo storage.ObjectRepository) *ReceiptService {
	return &ReceiptService{
		transactionRepo: transactionRepo,
		storage:         objectRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReceiptService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// AttachReceipt validates, processes, and stores a receipt file, then links
// it to the transaction. Images are re-encoded as JPEG in thumbnail, display,
// and original variants; PDFs are stored as-is.
func (s *ReceiptService) AttachReceipt(ctx context.Context, transactionID uuid.UUID, data []byte, filename string) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotEnabled
	}

	if _, err := s.transactionRepo.GetByID(transactionID); err != nil {
		return nil, err
	}

	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := AllowedReceiptExtensions[ext]
	if !ok {
		return nil, ErrInvalidReceiptFormat
	}

	var metadata *ReceiptMetadata
	var err error
	if contentType == "application/pdf" {
		metadata, err = s.storePDF(ctx, transactionID, data)
	} else {
		metadata, err = s.storeImage(ctx, transactionID, data)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.SetReceiptPath(transactionID, metadata.originalPath)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.TransactionUpdated(updated))
	}

	return metadata, nil
}

// storePDF uploads a PDF receipt without processing
func (s *ReceiptService) storePDF(ctx context.Context, transactionID uuid.UUID, data []byte) (*ReceiptMetadata, error) {
	objectPath := storage.ReceiptObjectPath(transactionID, "original", ".pdf")

	if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(data), "application/pdf", int64(len(data))); err != nil {
		return nil, fmt.Errorf("failed to upload receipt: %w", err)
	}

	originalURL, err := s.storage.GeneratePresignedURL(ctx, objectPath, presignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &ReceiptMetadata{
		TransactionID: transactionID.String(),
		OriginalURL:   originalURL,
		originalPath:  objectPath,
	}, nil
}

// storeImage validates, resizes, and uploads all image variants
func (s *ReceiptService) storeImage(ctx context.Context, transactionID uuid.UUID, data []byte) (*ReceiptMetadata, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrReceiptImageTooSmall
	}

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"display", DisplayWidth},
		{"original", 0}, // 0 means keep original size
	}

	paths := make(map[string]string)
	for _, variant := range variants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			// Resize maintaining aspect ratio
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := storage.ReceiptObjectPath(transactionID, variant.name, ".jpg")
		if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			// Best-effort cleanup of variants already uploaded
			for _, p := range paths {
				_ = s.storage.Delete(ctx, p)
			}
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		paths[variant.name] = objectPath
	}

	metadata := &ReceiptMetadata{
		TransactionID: transactionID.String(),
		originalPath:  paths["original"],
	}

	for name, objectPath := range paths {
		url, err := s.storage.GeneratePresignedURL(ctx, objectPath, presignedURLExpiry)
		if err != nil {
			return nil, err
		}
		switch name {
		case "thumb":
			metadata.ThumbnailURL = url
		case "display":
			metadata.DisplayURL = url
		case "original":
			metadata.OriginalURL = url
		}
	}

	return metadata, nil
}
