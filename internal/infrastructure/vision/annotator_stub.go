//go:build !gocv
// +build !gocv

package vision

import (
	"errors"
	"image/color"
)

// GoCVAnnotator заглушка аннотатора (без OpenCV)
type GoCVAnnotator struct {
	Alpha float64
}

// NewGoCVAnnotator создаёт аннотатор-заглушку (без OpenCV)
func NewGoCVAnnotator() *GoCVAnnotator {
	return &GoCVAnnotator{
		Alpha: 0.4,
	}
}

// Tint возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnnotator) Tint(imageData []byte, tint color.RGBA) ([]byte, error) {
	_ = imageData
	_ = tint
	return nil, errors.New("gocv build tag is not enabled")
}
