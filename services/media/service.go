// Package mediasvc stores uploaded images.
package mediasvc

import (
	"context"
	"errors"
	"io"
)

var (
	ErrTooLarge        = errors.New("File size exceeds the 5 MB limit")
	ErrUnsupportedType = errors.New("Only jpeg, png, gif and webp images are allowed")

	allowedImageTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
)

// Service is any store that can hold uploaded images and serve them by URL.
type Service interface {
	// Upload stores an image and returns its public URL.
	Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error)
	// Delete removes the stored object a previous Upload returned url for.
	Delete(ctx context.Context, url string) error
}

// ValidateImage enforces the upload content-type whitelist and size cap.
func ValidateImage(contentType string, size, maxSize int64) error {
	if _, ok := allowedImageTypes[contentType]; !ok {
		return ErrUnsupportedType
	}
	if size > maxSize {
		return ErrTooLarge
	}
	return nil
}

func extFor(contentType string) string {
	return allowedImageTypes[contentType]
}
