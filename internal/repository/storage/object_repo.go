package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ObjectRepository defines the interface for object storage operations
type ObjectRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// ReceiptObjectPath creates a unique object path for a receipt variant.
// Layout: receipts/<transaction-id>/<random>_<variant><ext>
func ReceiptObjectPath(transactionID uuid.UUID, variant string, ext string) string {
	filename := fmt.Sprintf("%s_%s%s", uuid.New().String(), variant, ext)
	return path.Join("receipts", transactionID.String(), filename)
}

// ReportObjectPath creates the object path for a generated report artifact.
// Layout: reports/<year>/<month>/<filename>
func ReportObjectPath(year int, month int, filename string) string {
	return path.Join("reports", fmt.Sprintf("%d", year), fmt.Sprintf("%02d", month), filename)
}
