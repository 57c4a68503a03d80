// Package media validates the images users upload for scanning, forum
// posts and avatars.
package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
)

const MaxImageSize = 4 * 1024 * 1024

var allowed = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

var (
	ErrUnsupportedImage = fmt.Errorf("%w: only JPEG, PNG and WebP images are supported", apperr.ErrUnsupportedMedia)
	ErrEmptyImage       = fmt.Errorf("%w: image is required", apperr.ErrValidation)
	ErrImageTooLarge    = fmt.Errorf("%w: image too large, maximum 4MB", apperr.ErrValidation)
)

type Image struct {
	MimeType string
	Data     []byte
}

// Normalize lowercases a declared media type and strips parameters.
func Normalize(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mimeType))
}

func Allowed(mimeType string) bool {
	_, ok := allowed[Normalize(mimeType)]
	return ok
}

// Extension returns the file extension for an allowed media type.
func Extension(mimeType string) string {
	return allowed[Normalize(mimeType)]
}

func (img Image) Validate() error {
	if len(img.Data) == 0 {
		return ErrEmptyImage
	}
	if !Allowed(img.MimeType) {
		return ErrUnsupportedImage
	}
	if len(img.Data) > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

// FromForm reads and validates a multipart upload.
func FromForm(fh *multipart.FileHeader) (Image, error) {
	img := Image{MimeType: Normalize(fh.Header.Get("Content-Type"))}
	if !Allowed(img.MimeType) {
		return img, ErrUnsupportedImage
	}
	if fh.Size > MaxImageSize {
		return img, ErrImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return img, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	img.Data, err = io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return img, fmt.Errorf("failed to read upload: %w", err)
	}
	return img, img.Validate()
}
