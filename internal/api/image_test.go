package api

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadImage(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "a.png")
	if err := os.WriteFile(small, []byte("\x89PNG\r\n\x1a\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	big := filepath.Join(dir, "big.png")
	if err := os.WriteFile(big, make([]byte, MaxImageBytes+1), 0o600); err != nil {
		t.Fatal(err)
	}

	b, err := ReadImage(small)
	if err != nil || len(b) != 8 {
		t.Fatalf("ReadImage(small): len=%d err=%v", len(b), err)
	}
	if _, err := ReadImage(big); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge; got %v", err)
	}
	if _, err := ReadImage(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist; got %v", err)
	}
}
