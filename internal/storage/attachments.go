// Package storage keeps task evidence files and hands out their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrInvalidName is returned for file names that would escape the task
// folder or are empty.
var ErrInvalidName = errors.New("invalid attachment name")

// File is one upload waiting to be stored.
type File struct {
	Name    string
	Content io.Reader
}

// AttachmentStore writes uploads under tasks/<taskId>/.
type AttachmentStore interface {
	Upload(ctx context.Context, taskID string, files []File) ([]string, error)
}

// FsStore is an AttachmentStore on an afero filesystem. Use
// afero.NewOsFs for real storage or afero.NewMemMapFs in tests.
type FsStore struct {
	fs      afero.Fs
	baseURL string
}

func NewFsStore(fs afero.Fs, baseURL string) *FsStore {
	return &FsStore{fs: fs, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewDirStore roots an FsStore at dir on the local disk.
func NewDirStore(dir, baseURL string) (*FsStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return NewFsStore(afero.NewBasePathFs(osFs, dir), baseURL), nil
}

// Upload stores every file and returns their URLs in input order. On the
// first failure the files already written for this call are removed.
func (s *FsStore) Upload(ctx context.Context, taskID string, files []File) ([]string, error) {
	if strings.ContainsAny(taskID, `/\`) || taskID == "" || taskID == "." || taskID == ".." {
		return nil, fmt.Errorf("%w: task id %q", ErrInvalidName, taskID)
	}
	dir := path.Join("/tasks", taskID)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	urls := make([]string, 0, len(files))
	var written []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			s.cleanup(written)
			return nil, err
		}
		name, err := cleanName(f.Name)
		if err != nil {
			s.cleanup(written)
			return nil, err
		}
		p := path.Join(dir, name)
		if err := afero.WriteReader(s.fs, p, f.Content); err != nil {
			s.cleanup(append(written, p))
			return nil, fmt.Errorf("writing %s: %w", p, err)
		}
		written = append(written, p)
		urls = append(urls, s.baseURL+p)
	}
	return urls, nil
}

func (s *FsStore) cleanup(paths []string) {
	for _, p := range paths {
		_ = s.fs.Remove(p)
	}
}

// Handler serves stored files read-only.
func (s *FsStore) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(afero.NewReadOnlyFs(s.fs)))
}

func cleanName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." || strings.TrimSpace(base) == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return base, nil
}
