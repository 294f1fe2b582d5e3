package port

import "image/color"

// ImageAnnotator интерфейс подсветки размеченных изображений
type ImageAnnotator interface {
	// Tint накладывает полупрозрачный цвет метки поверх изображения
	Tint(imageData []byte, tint color.RGBA) ([]byte, error)
}
