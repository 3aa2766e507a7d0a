package payslip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cryptoutil "managertc/internal/platform/crypto"
)

// ArtifactStore writes rendered payslips to durable storage and returns the
// relative path the record's payslip URL points at.
type ArtifactStore interface {
	Write(ctx context.Context, filename string, data []byte) (string, error)
	Read(ctx context.Context, path string) ([]byte, error)
}

// FSStore keeps payslips on the local filesystem under a base directory,
// optionally encrypted at rest with the platform crypto service.
type FSStore struct {
	BaseDir string
	Crypto  *cryptoutil.Service
}

func NewFSStore(baseDir string, crypto *cryptoutil.Service) *FSStore {
	return &FSStore{BaseDir: baseDir, Crypto: crypto}
}

func (s *FSStore) Write(ctx context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.BaseDir, 0o755); err != nil {
		return "", fmt.Errorf("create payslip dir: %w", err)
	}

	mode := os.FileMode(0o644)
	if s.Crypto != nil && s.Crypto.Configured() {
		encrypted, err := s.Crypto.Encrypt(data)
		if err != nil {
			return "", fmt.Errorf("encrypt payslip: %w", err)
		}
		data = encrypted
		filename += ".enc"
		mode = 0o600
	}

	path := filepath.Join(s.BaseDir, filename)
	if err := os.WriteFile(path, data, mode); err != nil {
		return "", err
	}
	return path, nil
}

func (s *FSStore) Read(ctx context.Context, path string) ([]byte, error) {
	// Paths come from stored payslip URLs; keep reads inside the base dir.
	cleaned := filepath.Clean(path)
	rel, err := filepath.Rel(s.BaseDir, cleaned)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return nil, fmt.Errorf("path %q escapes payslip dir", path)
	}

	data, err := os.ReadFile(cleaned)
	if err != nil {
		return nil, err
	}
	if s.Crypto != nil && s.Crypto.Configured() && filepath.Ext(cleaned) == ".enc" {
		return s.Crypto.Decrypt(data)
	}
	return data, nil
}
