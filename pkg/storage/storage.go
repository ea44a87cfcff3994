package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxFileSize = 5 * 1024 * 1024 // 5MB
	MaxFiles    = 5
)

var (
	ErrInvalidFileType = errors.New("only image files are allowed")
	ErrFileTooLarge    = errors.New("file exceeds the 5MB limit")
	ErrTooManyFiles    = errors.New("at most 5 images may be uploaded at once")
)

var allowedImages = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// StoredFile describes a file written by a FileStore.
type StoredFile struct {
	Filename   string
	Path       string // public URL path
	UploadedAt time.Time
}

// FileStore persists uploaded files and deletes them again.
type FileStore interface {
	Save(fh *multipart.FileHeader) (*StoredFile, error)
	Delete(filename string) error
}

// LocalStore writes files under Root/Dir and serves them under URLPrefix/Dir.
type LocalStore struct {
	root      string
	dir       string
	urlPrefix string
}

// NewLocalStore creates the target directory if needed.
func NewLocalStore(root, dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root, dir: dir, urlPrefix: urlPrefix}, nil
}

// ValidateImages checks count, size, extension and sniffed content type of
// every file before any of them is written.
func ValidateImages(files []*multipart.FileHeader) error {
	if len(files) > MaxFiles {
		return ErrTooManyFiles
	}
	for _, fh := range files {
		if err := validateImage(fh); err != nil {
			return err
		}
	}
	return nil
}

func validateImage(fh *multipart.FileHeader) error {
	if fh.Size > MaxFileSize {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	want, ok := allowedImages[ext]
	if !ok {
		return ErrInvalidFileType
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("detect content type: %w", err)
	}
	// content must match the extension, not just any image type
	if !mt.Is(want) {
		return ErrInvalidFileType
	}
	return nil
}

func (s *LocalStore) Save(fh *multipart.FileHeader) (*StoredFile, error) {
	if err := validateImage(fh); err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), strings.ToLower(filepath.Ext(fh.Filename)))
	dst, err := os.Create(filepath.Join(s.root, s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &StoredFile{
		Filename:   name,
		Path:       path.Join(s.urlPrefix, s.dir, name),
		UploadedAt: time.Now(),
	}, nil
}

func (s *LocalStore) Delete(filename string) error {
	// filenames come from stored metadata; refuse anything that escapes the dir
	if filename == "" || filename != filepath.Base(filename) {
		return fmt.Errorf("invalid filename %q", filename)
	}
	if err := os.Remove(filepath.Join(s.root, s.dir, filename)); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
