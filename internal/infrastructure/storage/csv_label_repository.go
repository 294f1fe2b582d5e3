package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"click2label/internal/domain/entity"
	"click2label/internal/domain/port"
)

// Формат временной метки в CSV, как в исходной таблице результатов
const timestampLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"image_id", "label", "timestamp"}

// CSVLabelRepository хранит результаты разметки в CSV-файле.
// Файл перезаписывается целиком при каждом сохранении; при чтении
// отсутствующий файл трактуется как пустое хранилище.
type CSVLabelRepository struct {
	path string
}

// NewCSVLabelRepository создаёт хранилище с заданным путём к CSV-файлу
func NewCSVLabelRepository(path string) *CSVLabelRepository {
	return &CSVLabelRepository{path: path}
}

// Load читает сохранённые записи из CSV-файла
func (r *CSVLabelRepository) Load(ctx context.Context) ([]entity.ImageRecord, error) {
	_ = ctx

	f, err := os.Open(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Первая строка — заголовок, колонки ищем по имени.
	idCol, labelCol, tsCol := -1, -1, -1
	for i, name := range rows[0] {
		switch name {
		case "image_id":
			idCol = i
		case "label":
			labelCol = i
		case "timestamp":
			tsCol = i
		}
	}
	if idCol < 0 || labelCol < 0 {
		return nil, fmt.Errorf("results file %s must contain image_id and label columns", r.path)
	}

	records := make([]entity.ImageRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= idCol || len(row) <= labelCol {
			continue
		}

		rec := entity.ImageRecord{
			Filename: row[idCol],
			Label:    entity.Label(row[labelCol]),
		}
		if tsCol >= 0 && len(row) > tsCol {
			if ts, err := time.Parse(timestampLayout, row[tsCol]); err == nil {
				rec.Timestamp = ts
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// Save вливает записи в файл по имени файла и перезаписывает CSV.
// В файл попадают только размеченные изображения: снятая метка
// убирает строку при следующем сохранении.
func (r *CSVLabelRepository) Save(ctx context.Context, records []entity.ImageRecord) error {
	existing, err := r.Load(ctx)
	if err != nil {
		return err
	}

	order := make([]string, 0, len(existing)+len(records))
	byName := make(map[string]entity.ImageRecord, len(existing)+len(records))
	for _, rec := range existing {
		order = append(order, rec.Filename)
		byName[rec.Filename] = rec
	}
	for _, rec := range records {
		if _, ok := byName[rec.Filename]; !ok {
			order = append(order, rec.Filename)
		}
		byName[rec.Filename] = rec
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create results dir: %w", err)
		}
	}

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	for _, name := range order {
		rec := byName[name]
		if !rec.Labelled() {
			continue
		}
		row := []string{rec.Filename, string(rec.Label), rec.Timestamp.Format(timestampLayout)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.LabelRepository = (*CSVLabelRepository)(nil)
