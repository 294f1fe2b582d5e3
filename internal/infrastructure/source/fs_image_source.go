package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"click2label/internal/domain/port"
)

// Расширения файлов, которые считаются изображениями
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// FSImageSource источник изображений из каталога на диске
type FSImageSource struct {
	dir string
}

// NewFSImageSource создаёт источник поверх каталога с изображениями
func NewFSImageSource(dir string) *FSImageSource {
	return &FSImageSource{dir: dir}
}

// List возвращает имена файлов изображений в порядке листинга каталога
func (s *FSImageSource) List(ctx context.Context) ([]string, error) {
	_ = ctx

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if imageExtensions[ext] {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

// Read возвращает содержимое файла изображения по имени
func (s *FSImageSource) Read(ctx context.Context, filename string) ([]byte, error) {
	_ = ctx

	// Имя файла не должно выводить за пределы каталога
	if filename != filepath.Base(filename) {
		return nil, fmt.Errorf("invalid image name: %s", filename)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	return data, nil
}

// Проверка реализации интерфейса
var _ port.ImageSource = (*FSImageSource)(nil)
