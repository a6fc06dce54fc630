// Package filestore serves prediction files from a local directory and writes
// optimized results next to them. It backs local runs and the optimize CLI.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var (
	_ ports.PredictionSource = (*Source)(nil)
	_ ports.ResultSink       = (*Sink)(nil)
)

// Source lists the CSV files of one directory. Keys are file names.
type Source struct {
	dir       string
	extension string
}

func NewSource(dir string, extension string) (*Source, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errs.NewValueIsRequiredError("dir")
	}
	if extension == "" {
		extension = ".csv"
	}
	return &Source{dir: dir, extension: extension}, nil
}

func (s *Source) Latest(ctx context.Context) (ports.ObjectRef, error) {
	if err := ctx.Err(); err != nil {
		return ports.ObjectRef{}, err
	}

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return ports.ObjectRef{}, errs.NewObjectNotFoundErrorWithCause("dir", s.dir, err)
	}
	if err != nil {
		return ports.ObjectRef{}, fmt.Errorf("list %s: %w", s.dir, err)
	}

	var latest ports.ObjectRef
	found := false
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), s.extension) {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			return ports.ObjectRef{}, infoErr
		}
		if !found || info.ModTime().After(latest.LastModified) {
			latest = ports.ObjectRef{Key: entry.Name(), LastModified: info.ModTime()}
			found = true
		}
	}

	if !found {
		return ports.ObjectRef{}, errs.NewObjectNotFoundError("dir", s.dir)
	}
	return latest, nil
}

func (s *Source) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (s *Source) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func (s *Source) path(key string) (string, error) {
	if key == "" || filepath.Base(key) != key || key == "." || key == ".." {
		return "", errs.NewValueIsInvalidError("key")
	}
	return filepath.Join(s.dir, key), nil
}

// Sink writes result files into a directory, creating it on first use.
type Sink struct {
	dir string
}

func NewSink(dir string) (*Sink, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errs.NewValueIsRequiredError("dir")
	}
	return &Sink{dir: dir}, nil
}

func (s *Sink) Write(ctx context.Context, name string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || filepath.Base(name) != name {
		return "", errs.NewValueIsInvalidError("name")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
