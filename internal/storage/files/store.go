// Package files keeps uploaded scans on local disk under one folder per document type.
package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"village-admin-go/pkg/logger"
)

const (
	publicPrefix    = "/uploads/"
	defaultMaxBytes = 5 << 20
	sniffLength     = 512
)

var (
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrTooLarge        = errors.New("file too large")
	ErrUnknownField    = errors.New("unknown document field")
	ErrNotFound        = errors.New("file not found")
)

// Folders maps the upload form field to its storage folder.
var Folders = map[string]string{
	"scan_ktp":        "ktp",
	"scan_kk":         "kk",
	"scan_akta_lahir": "akta",
	"scan_buku_nikah": "nikah",
}

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

type Store struct {
	root     string
	maxBytes int64
	log      logger.Logger
}

func NewStore(root string, maxBytes int64, log logger.Logger) (*Store, error) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	for _, folder := range Folders {
		if err := os.MkdirAll(filepath.Join(root, folder), 0o755); err != nil {
			return nil, fmt.Errorf("create upload folder %s: %w", folder, err)
		}
	}
	return &Store{root: root, maxBytes: maxBytes, log: log}, nil
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save stores the content of an upload field and returns its public path,
// for example "/uploads/ktp/<uuid>.png". The type is sniffed from the content.
func (s *Store) Save(ctx context.Context, field string, r io.Reader) (string, error) {
	folder, ok := Folders[field]
	if !ok {
		return "", ErrUnknownField
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := extensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	target := filepath.Join(s.root, folder, name)
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	written, err := io.Copy(file, io.LimitReader(body, s.maxBytes+1))
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(target)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write upload: %w", err)
	}

	s.log.Debug("files: stored", "field", field, "path", publicPrefix+folder+"/"+name, "bytes", written)
	return publicPrefix + folder + "/" + name, nil
}

// Remove deletes a file previously returned by Save. Failures are logged only.
func (s *Store) Remove(ctx context.Context, publicPath string) {
	target, ok := s.resolve(publicPath)
	if !ok {
		s.log.Warn("files: refusing to remove path outside uploads", "path", publicPath)
		return
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Error("files: remove failed", "path", publicPath, "err", err)
	}
}

// Open returns the stored file of a folder, such as Open("ktp", "<uuid>.png").
func (s *Store) Open(folder, name string) (*os.File, error) {
	if !knownFolder(folder) || name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return nil, ErrNotFound
	}

	file, err := os.Open(filepath.Join(s.root, folder, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (s *Store) resolve(publicPath string) (string, bool) {
	rest, ok := strings.CutPrefix(publicPath, publicPrefix)
	if !ok {
		return "", false
	}
	folder, name, ok := strings.Cut(rest, "/")
	if !ok || !knownFolder(folder) || name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return filepath.Join(s.root, folder, name), true
}

func knownFolder(folder string) bool {
	for _, known := range Folders {
		if known == folder {
			return true
		}
	}
	return false
}
