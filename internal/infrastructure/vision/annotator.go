//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"
)

// GoCVAnnotator накладывает полупрозрачный цвет метки поверх изображения
type GoCVAnnotator struct {
	Alpha float64 // доля цвета метки в итоговой картинке
}

// NewGoCVAnnotator создаёт аннотатор с прозрачностью по умолчанию
func NewGoCVAnnotator() *GoCVAnnotator {
	return &GoCVAnnotator{
		Alpha: 0.4,
	}
}

// Tint смешивает изображение с цветом метки и возвращает новую картинку
func (a *GoCVAnnotator) Tint(imageData []byte, tint color.RGBA) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	// Сплошная заливка цветом метки того же размера, что и изображение.
	// Каналы в порядке BGR, как принято в OpenCV.
	overlay := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(tint.B), float64(tint.G), float64(tint.R), 0),
		mat.Rows(), mat.Cols(), gocv.MatTypeCV8UC3)
	defer overlay.Close()

	blended := gocv.NewMat()
	defer blended.Close()
	gocv.AddWeighted(mat, 1-a.Alpha, overlay, a.Alpha, 0, &blended)

	img, err := blended.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}
