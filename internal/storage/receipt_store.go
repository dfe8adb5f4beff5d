package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrContentTypeNotAllowed = errors.New("content type is not allowed")

// ReceiptStore persists rendered receipts and returns where they went
type ReceiptStore interface {
	SaveReceipt(ctx context.Context, key string, content []byte) (string, error)
}

// LocalReceiptStore writes receipts below a base directory
type LocalReceiptStore struct {
	baseDir string
}

func NewLocalReceiptStore(baseDir string) *LocalReceiptStore {
	return &LocalReceiptStore{baseDir: baseDir}
}

func (s *LocalReceiptStore) SaveReceipt(_ context.Context, key string, content []byte) (string, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}
	return path, nil
}
