package app

import (
	"context"
	"errors"
	"sync"

	"click2label/internal/domain/entity"
	"click2label/internal/domain/port"
)

// ErrNoSession — для пользователя не начата сессия разметки
var ErrNoSession = errors.New("labelling session is not started")

// LabelService управляет сессиями разметки пользователей
type LabelService struct {
	users    *UserService
	source   port.ImageSource
	repo     port.LabelRepository
	cfg      SessionConfig
	sessions map[int64]*Session
	mu       sync.RWMutex
}

// NewLabelService создаёт сервис, который управляет разметкой изображений.
func NewLabelService(users *UserService, source port.ImageSource, repo port.LabelRepository, cfg SessionConfig) *LabelService {
	return &LabelService{
		users:    users,
		source:   source,
		repo:     repo,
		cfg:      cfg,
		sessions: make(map[int64]*Session),
	}
}

// Begin открывает новую сессию разметки и переводит пользователя в режим разметки.
func (s *LabelService) Begin(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	session, err := NewSession(ctx, s.source, s.repo, s.cfg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[userID] = session
	s.mu.Unlock()

	return s.users.BeginLabelling(ctx, userID, chatID)
}

// NextBatch сохраняет метки показанного батча и возвращает следующий батч.
func (s *LabelService) NextBatch(ctx context.Context, userID int64) ([]*entity.ImageRecord, error) {
	session, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	return session.Advance(ctx)
}

// Toggle переключает метку изображения из текущего батча пользователя.
func (s *LabelService) Toggle(userID int64, imageID string, button entity.Button) (*entity.ImageRecord, error) {
	session, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	return session.Toggle(imageID, button)
}

// Finish сохраняет метки текущего батча, закрывает сессию и
// возвращает пользователя в главное меню.
func (s *LabelService) Finish(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	s.mu.Lock()
	session, ok := s.sessions[userID]
	delete(s.sessions, userID)
	s.mu.Unlock()

	if ok {
		if err := session.Flush(ctx); err != nil {
			return nil, err
		}
	}

	return s.users.Cancel(ctx, userID, chatID)
}

// Progress возвращает прогресс разметки для пользователя.
func (s *LabelService) Progress(userID int64) (labelled, total int, err error) {
	session, err := s.session(userID)
	if err != nil {
		return 0, 0, err
	}
	labelled, total = session.Progress()
	return labelled, total, nil
}

func (s *LabelService) session(userID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return session, nil
}
