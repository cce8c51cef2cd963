// Package media validates and stores images attached to posts.
package media

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
	_ "golang.org/x/image/webp"
)

const (
	// MaxImageBytes bounds a single upload.
	MaxImageBytes = 5 << 20

	uploadDir = "posts"
)

var (
	ErrMalformedImage = xerrors.Message("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	ErrImageTooLarge  = xerrors.Message("Image is too large")
)

// DetectFormat returns the image format name ("gif", "png", "jpeg" or "webp") of data.
func DetectFormat(data []byte) (string, error) {
	if len(data) > MaxImageBytes {
		return "", xerrors.New(ErrImageTooLarge)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", xerrors.New(ErrMalformedImage)
	}
	return format, nil
}

// Store keeps uploaded files below Root and hands out paths relative to it.
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

// Save writes data as posts/<uuid>.<format> and returns that relative path.
func (s *Store) Save(ctx context.Context, data []byte) (string, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", xerrors.New(err)
	}

	name := path.Join(uploadDir, uuid.NewString()+"."+format)
	fullPath := filepath.Join(s.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", xerrors.New(err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", xerrors.New(err)
	}

	return name, nil
}
