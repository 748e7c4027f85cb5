// Package fs provides filesystem adapters that implement anchor service interfaces.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/eykd/anchormark-go/internal/key"
	"github.com/eykd/anchormark-go/internal/slug"
)

// resolve joins path against root. Absolute paths and an empty root
// pass through unchanged, so targets are interpreted relative to the
// working directory by default.
func resolve(root, path string) string {
	if root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// OSContentReader implements anchor.ContentReader using os.ReadFile.
type OSContentReader struct {
	Root string
}

// ReadFileImpl reads the full content of the file at path. Errors are
// returned unwrapped so callers can branch on fs.ErrNotExist.
func (cr *OSContentReader) ReadFileImpl(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(resolve(cr.Root, path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadFile delegates to ReadFileImpl.
func (cr *OSContentReader) ReadFile(ctx context.Context, path string) (string, error) {
	return cr.ReadFileImpl(ctx, path)
}

// AtomicWriter implements anchor.FileWriter with a temp-file-and-rename
// strategy so an interrupted write never leaves a truncated target.
type AtomicWriter struct {
	Root string
}

// WriteFileImpl writes content to path, creating parent directories as needed.
func (w *AtomicWriter) WriteFileImpl(_ context.Context, path, content string) error {
	target := resolve(w.Root, path)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return WriteFileAtomic(target, []byte(content), 0o644)
}

// WriteFile delegates to WriteFileImpl.
func (w *AtomicWriter) WriteFile(ctx context.Context, path, content string) error {
	return w.WriteFileImpl(ctx, path, content)
}

// WriteFileAtomic writes data to path by way of a temporary file in the
// same directory followed by a rename, so readers never observe a
// half-written file. An existing file keeps its permission bits;
// otherwise perm applies. The temporary file is removed on every
// failure path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".amk-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}
	success = true
	return nil
}

// KeyReserver implements anchor.KeyReserver using a random io.Reader.
type KeyReserver struct {
	Rand io.Reader
}

// ReserveImpl generates a new anchor key using the configured random source.
func (r *KeyReserver) ReserveImpl(_ context.Context) (string, error) {
	return key.Generate(r.Rand)
}

// Reserve delegates to ReserveImpl.
func (r *KeyReserver) Reserve(ctx context.Context) (string, error) {
	return r.ReserveImpl(ctx)
}

// SlugAdapter implements anchor.Slugger using the slug package.
type SlugAdapter struct{}

// Slug converts a label to a marker-safe key.
func (SlugAdapter) Slug(s string) string { return slug.Slug(s) }
