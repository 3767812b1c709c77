package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}

	return path
}

func TestPathFor(t *testing.T) {
	got := PathFor(filepath.Join("data", "results_2023-09-04.csv"))
	want := filepath.Join("data", "results_2023-09-04.manifest.yaml")

	if got != want {
		t.Errorf("PathFor() = %q, want %q", got, want)
	}
}

func TestCalculateHash(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.csv", "hello")

	hash, size, err := CalculateHash(path)
	if err != nil {
		t.Fatalf("CalculateHash() error = %v", err)
	}

	// sha256("hello")
	if hash != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Errorf("unexpected hash %s", hash)
	}

	if size != 5 {
		t.Errorf("expected 5 bytes, got %d", size)
	}
}

func TestSignWriteVerify(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "results_2023-09-04.csv", "Services,Description\n")
	xlsxPath := writeFile(t, dir, "results_2023-09-04.xlsx", "workbook")

	m, err := Sign("run-1", "https://www.etenders.gov.za", 200, csvPath, xlsxPath)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if len(m.Files) != 2 || m.Files[0].Name != "results_2023-09-04.csv" {
		t.Fatalf("unexpected files: %+v", m.Files)
	}

	manifestPath := PathFor(csvPath)
	if err := m.Write(manifestPath); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	loaded, err := Read(manifestPath)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if loaded.RunID != "run-1" || loaded.Records != 200 || !loaded.Generated.Equal(m.Generated) {
		t.Errorf("manifest did not round trip: %+v", loaded)
	}

	ok, err := Verify(manifestPath)
	if err != nil || !ok {
		t.Fatalf("Verify() = %v, %v", ok, err)
	}

	writeFile(t, dir, "results_2023-09-04.csv", "tampered")

	ok, err = Verify(manifestPath)
	if ok || !errors.Is(err, ErrHashMismatch) {
		t.Errorf("expected hash mismatch, got %v, %v", ok, err)
	}
}

func TestVerify_Errors(t *testing.T) {
	dir := t.TempDir()

	empty := writeFile(t, dir, "empty.manifest.yaml", "run_id: x\nfiles: []\n")
	if _, err := Verify(empty); !errors.Is(err, ErrNoFiles) {
		t.Errorf("expected ErrNoFiles, got %v", err)
	}

	noHash := writeFile(t, dir, "nohash.manifest.yaml", "files:\n  - name: a.csv\n")
	if _, err := Verify(noHash); !errors.Is(err, ErrNoHashFound) {
		t.Errorf("expected ErrNoHashFound, got %v", err)
	}

	if _, err := Verify(filepath.Join(dir, "missing.manifest.yaml")); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestSign_MissingFile(t *testing.T) {
	if _, err := Sign("run", "src", 0, filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
