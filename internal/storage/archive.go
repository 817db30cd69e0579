// Package storage keeps generated donor reports on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReportArchive stores report snapshots under a root directory, one file per
// report date.
type ReportArchive struct {
	root string
}

// NewReportArchive creates root if needed.
func NewReportArchive(root string) (*ReportArchive, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage: archive directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure archive directory: %w", err)
	}
	return &ReportArchive{root: root}, nil
}

// ReportKey names the snapshot of kind taken as of asOf, e.g. donors/2024-07-01.json.
func ReportKey(kind string, asOf time.Time) string {
	return kind + "/" + asOf.UTC().Format(time.DateOnly) + ".json"
}

// Save writes data at key, replacing any previous snapshot atomically, and
// returns the absolute path written.
func (a *ReportArchive) Save(ctx context.Context, key string, data []byte) (string, error) {
	if a == nil {
		return "", errors.New("storage: no archive configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(a.root, filepath.FromSlash(cleanKey))
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("storage: write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", fmt.Errorf("storage: publish report: %w", err)
	}
	return filepath.Abs(fullPath)
}

// sanitizeKey normalizes a key and prevents escaping the archive root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
