// Package storage keeps uploaded files on the local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/out"

	"github.com/google/uuid"
)

// URLPrefix is the public path the upload directory is served under.
const URLPrefix = "/uploads"

var unsafeOwner = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// LocalStorage writes files to <root>/<kind>/<owner>-<uuid><ext>.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

var _ out.FileStorage = (*LocalStorage)(nil)

// Root is the directory served at URLPrefix.
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Save(ctx context.Context, kind domain.UploadKind, owner string, file *domain.UploadedFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", unsafeOwner.ReplaceAllString(owner, ""), uuid.NewString(), file.Ext())
	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	// one byte over the limit is enough to detect an oversized body
	n, err := io.Copy(dst, io.LimitReader(file.Body, kind.MaxSize()+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > kind.MaxSize() {
		err = fmt.Errorf("upload exceeds %d bytes", kind.MaxSize())
	}
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}

	return path.Join(URLPrefix, string(kind), name), nil
}
