package entity

import "time"

// Label — метка, присвоенная изображению
type Label string

// LabelNone означает, что изображение ещё не размечено
const LabelNone Label = "None"

// Button код кнопки мыши из события клика
type Button int

const (
	ButtonLeft  Button = 1 // левая кнопка мыши
	ButtonRight Button = 3 // правая кнопка мыши
)

// ClickMap сопоставляет код кнопки с меткой.
// Известное ограничение среды ввода: в некоторых окружениях колесо мыши
// приходит с тем же кодом, что и левая кнопка. Это особенность устройства
// ввода, в логике она не обрабатывается отдельно.
type ClickMap map[Button]Label

// ImageRecord хранит текущую метку одного изображения
type ImageRecord struct {
	Filename  string    // имя файла, уникальный идентификатор
	Label     Label     // текущая метка
	Timestamp time.Time // момент последнего переключения
}

// NewImageRecord создаёт запись без метки
func NewImageRecord(filename string) *ImageRecord {
	return &ImageRecord{
		Filename: filename,
		Label:    LabelNone,
	}
}

// Toggle переключает метку по клику: повторный клик той же меткой снимает её,
// клик другой меткой переключает напрямую, без промежуточного сброса.
func (r *ImageRecord) Toggle(label Label) {
	if r.Label == label {
		r.Label = LabelNone
	} else {
		r.Label = label
	}
	r.Timestamp = time.Now()
}

// Labelled сообщает, присвоена ли записи метка
func (r *ImageRecord) Labelled() bool {
	return r.Label != LabelNone
}
