package port

import "context"

// ImageSource интерфейс источника изображений для разметки
type ImageSource interface {
	// List возвращает имена файлов изображений в порядке листинга каталога
	List(ctx context.Context) ([]string, error)

	// Read возвращает содержимое файла изображения по имени
	Read(ctx context.Context, filename string) ([]byte, error)
}
