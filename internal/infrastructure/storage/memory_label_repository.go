package storage

import (
	"context"
	"sync"

	"click2label/internal/domain/entity"
	"click2label/internal/domain/port"
)

// MemoryLabelRepository in-memory хранилище результатов разметки
type MemoryLabelRepository struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]entity.ImageRecord
}

// NewMemoryLabelRepository создаёт новое in-memory хранилище
func NewMemoryLabelRepository() *MemoryLabelRepository {
	return &MemoryLabelRepository{
		byName: make(map[string]entity.ImageRecord),
	}
}

// Load возвращает все записи в порядке добавления
func (r *MemoryLabelRepository) Load(ctx context.Context) ([]entity.ImageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]entity.ImageRecord, 0, len(r.order))
	for _, name := range r.order {
		records = append(records, r.byName[name])
	}

	return records, nil
}

// Save вливает записи по имени файла; записи без метки удаляются
func (r *MemoryLabelRepository) Save(ctx context.Context, records []entity.ImageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		_, exists := r.byName[rec.Filename]

		if !rec.Labelled() {
			if exists {
				delete(r.byName, rec.Filename)
				r.order = removeName(r.order, rec.Filename)
			}
			continue
		}

		if !exists {
			r.order = append(r.order, rec.Filename)
		}
		r.byName[rec.Filename] = rec
	}

	return nil
}

func removeName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// Проверка реализации интерфейса
var _ port.LabelRepository = (*MemoryLabelRepository)(nil)
