// Package metadata records and verifies the provenance of snapshot files.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestSuffix replaces the snapshot extension in the manifest file name.
const ManifestSuffix = ".manifest.yaml"

// Manifest verification errors.
var (
	ErrNoFiles      = errors.New("manifest lists no files")
	ErrNoHashFound  = errors.New("no hash found in manifest")
	ErrHashMismatch = errors.New("hash mismatch")
)

// FileDigest is the recorded state of one snapshot file.
type FileDigest struct {
	Name   string `yaml:"name"`
	SHA256 string `yaml:"sha256"`
	Bytes  int64  `yaml:"bytes"`
}

// Manifest describes one run's snapshot files.
type Manifest struct {
	RunID     string       `yaml:"run_id"`
	Generated time.Time    `yaml:"generated"`
	Source    string       `yaml:"source"`
	Records   int          `yaml:"records"`
	Files     []FileDigest `yaml:"files"`
}

// PathFor returns the manifest path that sits beside a snapshot.
func PathFor(snapshot string) string {
	return strings.TrimSuffix(snapshot, filepath.Ext(snapshot)) + ManifestSuffix
}

// CalculateHash computes the SHA-256 hash and size of a file.
func CalculateHash(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()

	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Sign builds a manifest for files, which must share a directory.
func Sign(runID, source string, records int, files ...string) (*Manifest, error) {
	m := &Manifest{
		RunID:     runID,
		Generated: time.Now().UTC().Truncate(time.Second),
		Source:    source,
		Records:   records,
	}

	for _, path := range files {
		hash, size, err := CalculateHash(path)
		if err != nil {
			return nil, err
		}

		m.Files = append(m.Files, FileDigest{Name: filepath.Base(path), SHA256: hash, Bytes: size})
	}

	return m, nil
}

// Write saves the manifest as YAML.
func (m *Manifest) Write(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Read loads a manifest.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Verify checks every file listed in the manifest at path against its
// recorded hash. Files are resolved relative to the manifest.
func Verify(path string) (bool, error) {
	m, err := Read(path)
	if err != nil {
		return false, err
	}

	if len(m.Files) == 0 {
		return false, ErrNoFiles
	}

	dir := filepath.Dir(path)

	for _, f := range m.Files {
		if f.SHA256 == "" {
			return false, fmt.Errorf("%w: %s", ErrNoHashFound, f.Name)
		}

		calculated, _, err := CalculateHash(filepath.Join(dir, f.Name))
		if err != nil {
			return false, err
		}

		if calculated != f.SHA256 {
			return false, fmt.Errorf("%w: %s: expected %s, got %s", ErrHashMismatch, f.Name, f.SHA256, calculated)
		}
	}

	return true, nil
}
