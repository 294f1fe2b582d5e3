package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string

	DataFolder string // каталог с изображениями для разметки
	ResultPath string // путь к CSV-файлу с результатами

	LabelLeft  string // метка для левой кнопки
	LabelRight string // метка для правой кнопки
	ColorLeft  string // цвет подсветки левой метки
	ColorRight string // цвет подсветки правой метки

	GridRows    int // строк в сетке показа
	GridColumns int // столбцов в сетке показа
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DataFolder:    getEnv("DATA_FOLDER", "data"),
		ResultPath:    getEnv("RESULT_PATH", "labels/df.csv"),
		LabelLeft:     getEnv("LABEL_LEFT", "Cat meme"),
		LabelRight:    getEnv("LABEL_RIGHT", "Dog meme"),
		ColorLeft:     getEnv("COLOR_LEFT", "red"),
		ColorRight:    getEnv("COLOR_RIGHT", "blue"),
		GridRows:      getEnvInt("GRID_ROWS", 2),
		GridColumns:   getEnvInt("GRID_COLUMNS", 4),
	}

	return cfg, nil
}

// BatchSize — сколько изображений показывается за один раунд разметки
func (c *Config) BatchSize() int {
	return c.GridRows * c.GridColumns
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
