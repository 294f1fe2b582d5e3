package app

import (
	"context"
	"errors"

	"click2label/internal/domain/entity"
	"click2label/internal/domain/port"
)

var (
	// ErrSourceExhausted — в источнике не осталось изображений для показа
	ErrSourceExhausted = errors.New("no images left in source")

	// ErrUnknownImage — изображение не входит в текущий батч
	ErrUnknownImage = errors.New("image is not in the current batch")

	// ErrUnknownButton — кнопка не привязана к метке
	ErrUnknownButton = errors.New("button is not mapped to a label")
)

// SessionConfig параметры сессии разметки
type SessionConfig struct {
	Clicks    entity.ClickMap // привязка кнопок к меткам
	BatchSize int             // сколько изображений показывать за раз
}

// Session управляет одной сессией разметки: хранит очередь показа,
// текущий батч и сливает метки в хранилище между батчами.
type Session struct {
	repo   port.LabelRepository
	clicks entity.ClickMap
	num    int

	known  map[string]entity.ImageRecord // сохранённые результаты по имени файла
	queue  []string                      // порядок показа
	cursor int

	batch map[string]*entity.ImageRecord // текущий батч
	order []string                       // порядок изображений в батче
}

// NewSession читает существующие результаты и строит очередь показа:
// сначала неразмеченные файлы в порядке листинга, затем уже размеченные.
func NewSession(ctx context.Context, source port.ImageSource, repo port.LabelRepository, cfg SessionConfig) (*Session, error) {
	records, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	files, err := source.List(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]entity.ImageRecord, len(records))
	for _, r := range records {
		known[r.Filename] = r
	}

	var unlabelled, labelled []string
	for _, f := range files {
		if r, ok := known[f]; ok && r.Labelled() {
			labelled = append(labelled, f)
		} else {
			unlabelled = append(unlabelled, f)
		}
	}

	num := cfg.BatchSize
	if num <= 0 {
		num = 1
	}

	return &Session{
		repo:   repo,
		clicks: cfg.Clicks,
		num:    num,
		known:  known,
		queue:  append(unlabelled, labelled...),
		batch:  make(map[string]*entity.ImageRecord),
	}, nil
}

// Advance сохраняет метки показанного батча и возвращает следующий батч
// для показа. Возвращает ErrSourceExhausted, когда изображения закончились.
func (s *Session) Advance(ctx context.Context) ([]*entity.ImageRecord, error) {
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}

	if s.cursor >= len(s.queue) {
		return nil, ErrSourceExhausted
	}

	end := s.cursor + s.num
	if end > len(s.queue) {
		end = len(s.queue)
	}

	s.batch = make(map[string]*entity.ImageRecord, end-s.cursor)
	s.order = s.order[:0]
	for _, f := range s.queue[s.cursor:end] {
		rec := entity.NewImageRecord(f)
		if prev, ok := s.known[f]; ok {
			*rec = prev
		}
		s.batch[f] = rec
		s.order = append(s.order, f)
	}
	s.cursor = end

	out := make([]*entity.ImageRecord, 0, len(s.order))
	for _, f := range s.order {
		out = append(out, s.batch[f])
	}

	return out, nil
}

// Toggle переключает метку изображения из текущего батча по коду кнопки
func (s *Session) Toggle(imageID string, button entity.Button) (*entity.ImageRecord, error) {
	rec, ok := s.batch[imageID]
	if !ok {
		return nil, ErrUnknownImage
	}

	label, ok := s.clicks[button]
	if !ok {
		return nil, ErrUnknownButton
	}

	rec.Toggle(label)
	return rec, nil
}

// Flush сохраняет метки текущего батча, не продвигая очередь.
// Используется при отмене, чтобы не потерять метки последнего батча.
func (s *Session) Flush(ctx context.Context) error {
	if len(s.order) == 0 {
		return nil
	}

	records := make([]entity.ImageRecord, 0, len(s.order))
	for _, f := range s.order {
		rec := *s.batch[f]
		records = append(records, rec)
		if rec.Labelled() {
			s.known[f] = rec
		} else {
			delete(s.known, f)
		}
	}

	if err := s.repo.Save(ctx, records); err != nil {
		return err
	}

	s.batch = make(map[string]*entity.ImageRecord)
	s.order = nil

	return nil
}

// Progress возвращает число размеченных изображений и общий размер очереди
func (s *Session) Progress() (labelled, total int) {
	total = len(s.queue)
	for _, f := range s.queue {
		if rec, ok := s.batch[f]; ok {
			if rec.Labelled() {
				labelled++
			}
			continue
		}
		if rec, ok := s.known[f]; ok && rec.Labelled() {
			labelled++
		}
	}
	return labelled, total
}
