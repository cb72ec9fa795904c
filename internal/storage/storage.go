package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/localnerve/orgportal/internal/config"
)

// ErrNotFound is returned when a reference does not resolve to a stored object
var ErrNotFound = errors.New("storage: object not found")

// Categories of stored files served by the static endpoints. Only avatars
// are written through the API; images and media objects are placed in the
// store by other means (a bucket sync or a copy into STORAGE_DIR) and are
// only read here.
const (
	CategoryAvatars = "avatars"
	CategoryImages  = "images"
	CategoryMedia   = "media"
)

// MaxUploadSize bounds any single stored file
const MaxUploadSize = 8 << 20

// Object is an opened stored file
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store resolves and saves file references
type Store interface {
	// Open resolves category/name to a byte stream, or ErrNotFound.
	Open(ctx context.Context, category, name string) (*Object, error)
	// Save stores the content under a generated name and returns that name.
	Save(ctx context.Context, category string, content []byte) (string, error)
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

// New builds the Store selected by STORAGE_DRIVER
func New(cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "local":
		return NewLocal(cfg.StorageDir)
	case "s3":
		return NewS3(cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
	}
	return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
}

// ValidCategory reports whether category is served
func ValidCategory(category string) bool {
	switch category {
	case CategoryAvatars, CategoryImages, CategoryMedia:
		return true
	}
	return false
}

// ValidName accepts single path segments only
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

// newName generates a stored name, keeping the sniffed extension
func newName(content []byte) (string, string) {
	mtype := mimetype.Detect(content)
	return uuid.NewString() + mtype.Extension(), mtype.String()
}

func checkRef(category, name string) error {
	if !ValidCategory(category) || !ValidName(name) {
		return ErrNotFound
	}
	return nil
}
