package main

import (
	"log"

	"click2label/config"
	telegram "click2label/internal/api"
	app "click2label/internal/application"
	"click2label/internal/container"
	"click2label/internal/domain/entity"
	"click2label/internal/infrastructure/source"
	"click2label/internal/infrastructure/storage"
	"click2label/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Создаём хранилища и источник изображений
	userRepo := storage.NewMemoryUserRepository()
	labelRepo := storage.NewCSVLabelRepository(cfg.ResultPath)
	imageSource := source.NewFSImageSource(cfg.DataFolder)

	// Привязка кнопок к меткам: слева первая метка, справа вторая
	labelLeft := entity.Label(cfg.LabelLeft)
	labelRight := entity.Label(cfg.LabelRight)
	sessionCfg := app.SessionConfig{
		Clicks: entity.ClickMap{
			entity.ButtonLeft:  labelLeft,
			entity.ButtonRight: labelRight,
		},
		BatchSize: cfg.BatchSize(),
	}

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, labelRepo, imageSource, sessionCfg)

	buttons := []telegram.LabelButton{
		{Button: entity.ButtonLeft, Label: labelLeft, Color: telegram.ColorByName(cfg.ColorLeft)},
		{Button: entity.ButtonRight, Label: labelRight, Color: telegram.ColorByName(cfg.ColorRight)},
	}

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, imageSource, vision.NewGoCVAnnotator(), buttons)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
