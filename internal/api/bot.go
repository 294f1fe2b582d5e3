package telegram

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "click2label/internal/application"
	"click2label/internal/container"
	"click2label/internal/domain/entity"
	"click2label/internal/domain/port"
)

const (
	msgStart = `👋 Привет! Я бот для разметки изображений.

🏷 Я показываю изображения партиями, а вы назначаете метки кнопками под каждым фото.

📋 Команды:
/label — начать разметку
/next — следующая партия изображений
/progress — прогресс разметки
/cancel — завершить разметку
/help — справка`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /label, чтобы начать разметку
2️⃣ Под каждым фото есть две кнопки с метками
3️⃣ Повторное нажатие той же кнопки снимает метку
4️⃣ /next сохраняет метки и показывает следующую партию

💾 Результаты сохраняются в CSV при каждой смене партии.

📋 Команды:
/label — начать разметку
/next — следующая партия
/progress — прогресс
/cancel — завершить разметку`

	msgLabelStarted   = "🏷 Разметка начата. Показываю первую партию..."
	msgNoSession      = "❗ Разметка не начата. Отправьте /label, чтобы начать."
	msgAllDone        = "🎉 Изображения закончились. Результаты сохранены."
	msgCancelled      = "💾 Метки сохранены. Разметка завершена."
	msgDuringLabel    = "🏷 Идёт разметка: нажимайте кнопки под фото или отправьте /next."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgError          = "⚠️ Что-то пошло не так. Попробуйте ещё раз."
)

// Префикс callback-данных кнопок разметки
const togglePrefix = "t"

// LabelButton описывает кнопку разметки под изображением
type LabelButton struct {
	Button entity.Button
	Label  entity.Label
	Color  color.RGBA
}

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	services  *container.Container
	source    port.ImageSource
	annotator port.ImageAnnotator
	buttons   []LabelButton
	colors    map[entity.Label]color.RGBA
}

// NewBot создаёт нового бота
func NewBot(token string, services *container.Container, source port.ImageSource, annotator port.ImageAnnotator, buttons []LabelButton) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	colors := make(map[entity.Label]color.RGBA, len(buttons))
	for _, btn := range buttons {
		colors[btn.Label] = btn.Color
	}

	return &Bot{
		api:       api,
		services:  services,
		source:    source,
		annotator: annotator,
		buttons:   buttons,
		colors:    colors,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.services.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	if user.State == entity.StateLabelling {
		b.sendMessage(msg.Chat.ID, msgDuringLabel)
		return
	}
	b.sendMessage(msg.Chat.ID, msgNoSession)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		if _, err := b.services.UserService.Cancel(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			log.Printf("Error saving user state: %v", err)
		}
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "label":
		if _, err := b.services.LabelService.Begin(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			log.Printf("Error starting session: %v", err)
			b.sendMessage(msg.Chat.ID, msgError)
			return
		}
		b.sendMessage(msg.Chat.ID, msgLabelStarted)
		b.sendNextBatch(ctx, msg.From.ID, msg.Chat.ID)

	case "next":
		b.sendNextBatch(ctx, msg.From.ID, msg.Chat.ID)

	case "progress":
		labelled, total, err := b.services.LabelService.Progress(msg.From.ID)
		if errors.Is(err, app.ErrNoSession) {
			b.sendMessage(msg.Chat.ID, msgNoSession)
			return
		}
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("🏷 Размечено %d из %d изображений.", labelled, total))

	case "cancel":
		if _, err := b.services.LabelService.Finish(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			log.Printf("Error finishing session: %v", err)
			b.sendMessage(msg.Chat.ID, msgError)
			return
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// sendNextBatch сохраняет метки текущей партии и показывает следующую
func (b *Bot) sendNextBatch(ctx context.Context, userID, chatID int64) {
	records, err := b.services.LabelService.NextBatch(ctx, userID)
	switch {
	case errors.Is(err, app.ErrSourceExhausted):
		if _, err := b.services.LabelService.Finish(ctx, userID, chatID); err != nil {
			log.Printf("Error finishing session: %v", err)
		}
		b.sendMessage(chatID, msgAllDone)
		return

	case errors.Is(err, app.ErrNoSession):
		b.sendMessage(chatID, msgNoSession)
		return

	case err != nil:
		log.Printf("Error advancing batch: %v", err)
		b.sendMessage(chatID, msgError)
		return
	}

	for _, rec := range records {
		b.sendImage(ctx, chatID, rec)
	}
}

// sendImage отправляет одно изображение с кнопками разметки
func (b *Bot) sendImage(ctx context.Context, chatID int64, rec *entity.ImageRecord) {
	data, err := b.source.Read(ctx, rec.Filename)
	if err != nil {
		log.Printf("Error reading image %s: %v", rec.Filename, err)
		b.sendMessage(chatID, fmt.Sprintf("⚠️ Не удалось прочитать файл %s", rec.Filename))
		return
	}

	// Уже размеченные изображения подсвечиваем цветом метки.
	// Без тега gocv аннотатор недоступен, показываем оригинал.
	if rec.Labelled() {
		if tinted, err := b.annotator.Tint(data, b.colors[rec.Label]); err == nil {
			data = tinted
		}
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: rec.Filename, Bytes: data})
	photo.Caption = b.caption(rec)
	photo.ReplyMarkup = b.keyboard(rec.Filename)

	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending photo: %v", err)
	}
}

// handleCallback обрабатывает нажатие кнопки разметки
func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	parts := strings.SplitN(query.Data, ":", 3)
	if len(parts) != 3 || parts[0] != togglePrefix {
		b.answerCallback(query.ID, "")
		return
	}

	code, err := strconv.Atoi(parts[1])
	if err != nil {
		b.answerCallback(query.ID, "")
		return
	}
	filename := parts[2]

	rec, err := b.services.LabelService.Toggle(query.From.ID, filename, entity.Button(code))
	switch {
	case errors.Is(err, app.ErrUnknownImage):
		// Партия уже сменилась, кнопка относится к старому сообщению
		b.answerCallback(query.ID, "Это фото уже не в текущей партии, отправьте /next")
		return

	case errors.Is(err, app.ErrNoSession):
		b.answerCallback(query.ID, "Разметка не начата")
		return

	case err != nil:
		log.Printf("Error toggling label: %v", err)
		b.answerCallback(query.ID, "Ошибка")
		return
	}

	if rec.Labelled() {
		b.answerCallback(query.ID, fmt.Sprintf("🏷 %s", rec.Label))
	} else {
		b.answerCallback(query.ID, "Метка снята")
	}

	if query.Message != nil {
		edit := tgbotapi.NewEditMessageCaption(query.Message.Chat.ID, query.Message.MessageID, b.caption(rec))
		kb := b.keyboard(rec.Filename)
		edit.ReplyMarkup = &kb
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("Error editing caption: %v", err)
		}
	}
}

// caption строит подпись под изображением
func (b *Bot) caption(rec *entity.ImageRecord) string {
	if rec.Labelled() {
		return fmt.Sprintf("%s\n🏷 %s", rec.Filename, rec.Label)
	}
	return rec.Filename
}

// keyboard строит кнопки разметки для изображения
func (b *Bot) keyboard(filename string) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(b.buttons))
	for _, btn := range b.buttons {
		data := fmt.Sprintf("%s:%d:%s", togglePrefix, btn.Button, filename)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(btn.Label), data))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// answerCallback подтверждает нажатие кнопки
func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// ColorByName переводит имя цвета из конфигурации в RGBA.
// Неизвестные имена получают серый цвет.
func ColorByName(name string) color.RGBA {
	switch strings.ToLower(name) {
	case "red":
		return color.RGBA{R: 255, A: 255}
	case "blue":
		return color.RGBA{B: 255, A: 255}
	case "green":
		return color.RGBA{G: 255, A: 255}
	case "yellow":
		return color.RGBA{R: 255, G: 255, A: 255}
	case "orange":
		return color.RGBA{R: 255, G: 165, A: 255}
	case "purple":
		return color.RGBA{R: 128, B: 128, A: 255}
	}
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}
