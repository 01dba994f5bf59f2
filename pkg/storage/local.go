package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaStore 接收上传的二进制文件并返回可访问的引用
// 核心代码只传引用，不关心图片内容
type MediaStore interface {
	Save(file *multipart.FileHeader, subdir string) (string, error)
}

// LocalStore 本地磁盘实现，引用形如 /media/products/<uuid>.jpg
type LocalStore struct {
	Dir     string
	BaseUrl string
}

func NewLocalStore(dir, baseUrl string) *LocalStore {
	if baseUrl == "" {
		baseUrl = "/media"
	}
	return &LocalStore{Dir: dir, BaseUrl: strings.TrimRight(baseUrl, "/")}
}

func (s *LocalStore) Save(file *multipart.FileHeader, subdir string) (string, error) {
	ext := filepath.Ext(file.Filename)
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	dir := filepath.Join(s.Dir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", s.BaseUrl, subdir, name), nil
}
