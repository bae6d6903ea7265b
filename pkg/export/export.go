package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FileName is the fixed name of every exported artifact.
	FileName = "data.json"
	// ContentType is the MIME type of exported artifacts.
	ContentType = "application/json"
)

// Sink persists captured form data somewhere a user can pick it up.
type Sink interface {
	Export(ctx context.Context, data any) error
}

// JSON writes data to w as compact JSON without a trailing newline.
func JSON(w io.Writer, data any) error {
	if w == nil {
		return errors.New("export: writer is nil")
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}

// Download writes data as an attachment named data.json.
func Download(w http.ResponseWriter, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	header := w.Header()
	header.Set("Content-Type", ContentType+"; charset=utf-8")
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}

// DirSink writes data.json into Dir, replacing any previous export.
type DirSink struct {
	Dir string
}

// Path returns the file the sink writes to.
func (s DirSink) Path() string {
	dir := strings.TrimSpace(s.Dir)
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, FileName)
}

// Export writes the JSON artifact.
func (s DirSink) Export(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := JSON(f, data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

// WriterSink streams exports to an io.Writer.
type WriterSink struct {
	W io.Writer
}

// Export writes the JSON artifact to the wrapped writer.
func (s WriterSink) Export(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return JSON(s.W, data)
}
