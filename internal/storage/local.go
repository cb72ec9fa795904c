package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Local keeps files under a root directory, one subdirectory per category
type Local struct {
	root string
}

// NewLocal creates the category directories under root
func NewLocal(root string) (*Local, error) {
	for _, category := range []string{CategoryAvatars, CategoryImages, CategoryMedia} {
		if err := os.MkdirAll(filepath.Join(root, category), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &Local{root: root}, nil
}

func (l *Local) Open(_ context.Context, category, name string) (*Object, error) {
	if err := checkRef(category, name); err != nil {
		return nil, err
	}

	path := filepath.Join(l.root, category, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return &Object{Body: f, ContentType: mtype.String(), Size: info.Size()}, nil
}

func (l *Local) Save(_ context.Context, category string, content []byte) (string, error) {
	if !ValidCategory(category) {
		return "", fmt.Errorf("unknown storage category: %s", category)
	}
	if len(content) > MaxUploadSize {
		return "", fmt.Errorf("file exceeds %d bytes", MaxUploadSize)
	}

	name, _ := newName(content)
	if err := os.WriteFile(filepath.Join(l.root, category, name), content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return name, nil
}

func (l *Local) Ping(_ context.Context) error {
	info, err := os.Stat(l.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", l.root)
	}
	return nil
}
