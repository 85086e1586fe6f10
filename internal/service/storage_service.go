package service

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var ErrNotAnImage = errors.New("uploaded file is not an image")

// StoredImage describes a file persisted by the storage service.
type StoredImage struct {
	URL    string
	Width  int
	Height int
}

// StorageService writes uploaded images into the local upload directory and
// resolves their public URLs. Filenames combine a random token with the
// upload timestamp to avoid collisions.
type StorageService struct {
	dir     string
	urlPath string
}

// NewStorageService creates a StorageService for the given directory and
// public URL prefix.
func NewStorageService(dir, urlPath string) *StorageService {
	return &StorageService{
		dir:     dir,
		urlPath: strings.TrimRight(strings.TrimSpace(urlPath), "/"),
	}
}

// Save persists one uploaded image and returns its public URL plus measured
// pixel dimensions. Dimension probing is best-effort; an undecodable but
// image-typed file is stored with zero dimensions.
func (s *StorageService) Save(file *multipart.FileHeader) (StoredImage, error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return StoredImage{}, ErrNotAnImage
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return StoredImage{}, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("%s-%d%s", uuid.New().String(), time.Now().UnixMilli(), ext)
	dest := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return StoredImage{}, err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return StoredImage{}, err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dest)
		return StoredImage{}, err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return StoredImage{}, err
	}

	stored := StoredImage{URL: s.urlPath + "/" + name}
	stored.Width, stored.Height = probeDimensions(dest)
	return stored, nil
}

// Remove deletes the stored file behind a public URL previously returned by
// Save. URLs outside the upload prefix are ignored.
func (s *StorageService) Remove(url string) error {
	url = strings.TrimSpace(url)
	if url == "" || !strings.HasPrefix(url, s.urlPath+"/") {
		return nil
	}

	name := path.Base(url)
	if name == "." || name == "/" || name == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func probeDimensions(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
