package pkg

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrNotImage     = errors.New("file must be an image")
	ErrBadPath      = errors.New("path escapes storage root")
)

const (
	MaxImageSize = 5 << 20
	UploadsRoute = "/uploads"
)

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp"}

// DiskStorage 本地磁盘存储，记录里只保存相对 root 的路径
type DiskStorage struct {
	root    string
	baseURL string
}

func NewDiskStorage(root, baseURL string) *DiskStorage {
	return &DiskStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskStorage) Root() string {
	return s.root
}

// SaveImage 按内容识别图片类型后写入 dir 目录，返回相对路径
func (s *DiskStorage) SaveImage(fh *multipart.FileHeader, dir string) (string, error) {
	if fh.Size > MaxImageSize {
		return "", ErrFileTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	if !mimetype.EqualsAny(mt.String(), imageTypes...) {
		return "", ErrNotImage
	}
	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	rel := path.Join(dir, uuid.NewString()+mt.Extension())
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return rel, nil
}

// Delete 幂等删除；外部 URL 不处理
func (s *DiskStorage) Delete(rel string) error {
	if rel == "" || isRemote(rel) {
		return nil
	}
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err = os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL 相对路径转为可访问的绝对地址
func (s *DiskStorage) URL(rel string) string {
	if rel == "" || isRemote(rel) {
		return rel
	}
	return s.baseURL + UploadsRoute + "/" + strings.TrimLeft(rel, "/")
}

func (s *DiskStorage) resolve(rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if clean == "/" {
		return "", ErrBadPath
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func isRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}
