package port

import (
	"context"

	"click2label/internal/domain/entity"
)

// LabelRepository интерфейс хранилища результатов разметки
type LabelRepository interface {
	// Load возвращает все сохранённые записи в порядке хранения
	Load(ctx context.Context) ([]entity.ImageRecord, error)

	// Save вливает записи в хранилище по имени файла и сохраняет результат.
	// Записи без метки удаляются из хранилища.
	Save(ctx context.Context, records []entity.ImageRecord) error
}
