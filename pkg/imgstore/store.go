// Package imgstore keeps uploaded product images and logos on local disk and
// exposes them under a public URL prefix.
package imgstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// MaxUploadSize is the per-file ceiling for uploads.
	MaxUploadSize = 5 << 20
	// PublicPrefix is the URL prefix uploaded files are served under.
	PublicPrefix = "/uploads"
)

var (
	ErrNotImage    = errors.New("only image files are allowed")
	ErrTooLarge    = errors.New("image is larger than 5MB")
	ErrForeignPath = errors.New("path is not an uploaded file")
)

type Store struct {
	baseDir  string
	maxWidth int
	log      logrus.FieldLogger
	now      func() time.Time

	// names removed through Remove, so the watcher can skip them. Only
	// recorded while at least one watcher is attached.
	removing sync.Map
	watchers atomic.Int32
}

// New creates baseDir if needed. Images wider than maxWidth are downscaled
// after upload; maxWidth <= 0 keeps them as sent.
func New(baseDir string, maxWidth int, log logrus.FieldLogger) (*Store, error) {
	if baseDir == "" {
		return nil, errors.New("upload base dir cannot be empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", baseDir, err)
	}
	return &Store{
		baseDir:  baseDir,
		maxWidth: maxWidth,
		log:      log,
		now:      time.Now,
	}, nil
}

func (s *Store) BaseDir() string {
	return s.baseDir
}

// Save validates fh as an image, writes it under a generated name
// (<field>-<unix millis>-<random>.<ext>) and returns its public path.
func (s *Store) Save(fh *multipart.FileHeader, field string) (string, error) {
	if fh.Size > MaxUploadSize {
		return "", ErrTooLarge
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return "", ErrNotImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	sniffed := http.DetectContentType(head)
	if !strings.HasPrefix(sniffed, "image/") {
		return "", ErrNotImage
	}

	name := s.fileName(field, fh.Filename, sniffed)
	dst := filepath.Join(s.baseDir, name)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	// one byte over the limit is enough to detect a lying Size header
	written, err := io.Copy(out, io.LimitReader(io.MultiReader(bytes.NewReader(head), src), MaxUploadSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > MaxUploadSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(dst)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	s.downscale(dst)
	return PublicPrefix + "/" + name, nil
}

// Remove deletes the file behind a public path. A file that is already gone
// is not an error.
func (s *Store) Remove(publicPath string) error {
	if publicPath == "" {
		return nil
	}
	full, ok := s.Path(publicPath)
	if !ok {
		return ErrForeignPath
	}
	name := filepath.Base(full)
	tracked := s.watchers.Load() > 0
	if tracked {
		s.removing.Store(name, struct{}{})
	}
	if err := os.Remove(full); err != nil {
		if tracked {
			s.removing.Delete(name)
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// Path maps a public path to its location on disk. Only flat names directly
// under PublicPrefix are accepted.
func (s *Store) Path(publicPath string) (string, bool) {
	name, found := strings.CutPrefix(publicPath, PublicPrefix+"/")
	if !found || name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return filepath.Join(s.baseDir, name), true
}

func (s *Store) fileName(field, original, sniffed string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" || len(ext) > 6 {
		ext = extByType[sniffed]
	}
	if ext == "" {
		ext = ".img"
	}
	return fmt.Sprintf("%s-%d-%s%s", field, s.now().UnixMilli(), uuid.NewString()[:8], ext)
}

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// downscale shrinks path in place when it is wider than maxWidth. Formats
// imaging cannot decode are kept untouched.
func (s *Store) downscale(path string) {
	if s.maxWidth <= 0 {
		return
	}
	img, err := imaging.Open(path)
	if err != nil {
		s.log.WithField("file", filepath.Base(path)).Debugf("image not decodable, kept as uploaded: %s", err)
		return
	}
	if img.Bounds().Dx() <= s.maxWidth {
		return
	}
	resized := imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)
	if err := imaging.Save(resized, path); err != nil {
		s.log.WithField("file", filepath.Base(path)).Warnf("downscale failed, kept as uploaded: %s", err)
		return
	}
	s.log.WithField("file", filepath.Base(path)).Debugf("downscaled from %dpx to %dpx", img.Bounds().Dx(), s.maxWidth)
}
