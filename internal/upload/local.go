package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/He-ro616/we4x-CO/internal/core"
)

var (
	ErrUnsupportedType = errors.New("only jpg, jpeg, png and gif images are allowed")
	ErrTooLarge        = errors.New("uploaded file is too large")
	ErrEmptyFile       = errors.New("uploaded file is empty")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var _ core.FileStorage = (*LocalStorage)(nil)

// LocalStorage keeps uploads in a directory served under a public URL prefix.
type LocalStorage struct {
	dir          string
	publicPrefix string
	maxBytes     int64
	now          func() time.Time
}

// NewLocalStorage creates dir if needed. publicPrefix is the URL path the
// directory is served at, e.g. "/static/uploads".
func NewLocalStorage(dir, publicPrefix string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload folder: %w", err)
	}
	return &LocalStorage{
		dir:          dir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
		maxBytes:     maxBytes,
		now:          time.Now,
	}, nil
}

// Store writes r under a sanitized, time-prefixed name and returns its public path.
func (l *LocalStorage) Store(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	name := SanitizeFilename(suggestedName)
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%d_%s", l.now().UnixNano(), name)
	path := filepath.Join(l.dir, filename)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("could not save file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(r, l.maxBytes+1))
	closeErr := dst.Close()
	switch {
	case err != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("could not write file: %w", err)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("could not write file: %w", closeErr)
	case written == 0:
		_ = os.Remove(path)
		return "", ErrEmptyFile
	case written > l.maxBytes:
		_ = os.Remove(path)
		return "", ErrTooLarge
	}

	return l.publicPrefix + "/" + filename, nil
}

// Remove deletes a file previously returned by Store. Other references are ignored.
func (l *LocalStorage) Remove(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, l.publicPrefix+"/") {
		return nil
	}
	name := filepath.Base(ref)
	if name == "." || name == "/" || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SanitizeFilename keeps ASCII letters, digits, dot, dash and underscore,
// turns whitespace into underscores and strips any directory part.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)),
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "upload"
	}
	return out
}
