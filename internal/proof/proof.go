// Package proof validates proof-of-payment uploads before they touch
// storage: an image or PDF, at most 5 MiB, with a sanitized filename.
package proof

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// MaxSize is the upload size limit.
const MaxSize = 5 << 20 // 5 MiB

// ErrMissingFile is returned when the request carries no file part.
var ErrMissingFile = errors.New("no file attached")

// UnsupportedTypeError rejects files that are neither images nor PDFs.
type UnsupportedTypeError struct {
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q: expected an image or application/pdf", e.ContentType)
}

// TooLargeError rejects files over MaxSize.
type TooLargeError struct {
	Size int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file is %d bytes, limit is %d (5 MiB)", e.Size, MaxSize)
}

// Validate checks the declared content type and size of an upload. It runs
// before any storage write so a rejected file never leaves a partial
// record.
func Validate(contentType string, size int64) error {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	if !strings.HasPrefix(mediaType, "image/") && mediaType != "application/pdf" {
		return &UnsupportedTypeError{ContentType: contentType}
	}
	if size > MaxSize {
		return &TooLargeError{Size: size}
	}
	return nil
}

// SanitizeFilename strips any path component and reduces the name to a safe
// character subset.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || strings.Trim(out, "._") == "" {
		out = "upload"
	}
	return out
}

// StorageKey builds the per-order, timestamp-qualified key a proof file is
// stored under.
func StorageKey(orderID string, now time.Time, filename string) string {
	return fmt.Sprintf("orders/%s/%d-%s", orderID, now.UnixMilli(), SanitizeFilename(filename))
}
