// Package blob stores uploaded proof-of-payment files. The default backend
// writes under the data directory; deployments with object storage use the
// S3 backend instead.
package blob

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store persists an uploaded file under a key and returns the URL the
// stored file is reachable at.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (url string, err error)
}

// FSStore keeps uploads on the local filesystem under Root. Stored files
// are served by the HTTP layer under BaseURL.
type FSStore struct {
	Root    string
	BaseURL string
}

// NewFSStore creates a filesystem store rooted at root, served under
// baseURL (default "/uploads").
func NewFSStore(root, baseURL string) *FSStore {
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &FSStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *FSStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	dest := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing upload %s: %w", key, err)
	}
	return s.BaseURL + "/" + path.Clean(key), nil
}
