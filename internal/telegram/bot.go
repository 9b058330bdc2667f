package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tat-igra-bot/internal/quiz"
	"tat-igra-bot/internal/session"
)

const startCmd = "start"

// Bot is the Telegram transport: it turns /start commands and WebApp
// data messages into orchestrator calls and delivers the finished
// profile back to the participant.
type Bot struct {
	s         sender
	api       *tgbotapi.BotAPI
	orch      *session.Orchestrator
	webAppURL string
	parseMode string
}

func New(botToken, webAppURL, parseMode string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		s:         botAPISender{api: api},
		api:       api,
		webAppURL: webAppURL,
		parseMode: parseMode,
	}, nil
}

// AttachOrchestrator wires the session orchestrator in. The bot is the
// orchestrator's notifier, so the two are built in two steps.
func (b *Bot) AttachOrchestrator(orch *session.Orchestrator) {
	b.orch = orch
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.WebAppData != nil {
			b.handleWebAppData(ctx, update.Message)
			continue
		}
		if update.Message.IsCommand() && update.Message.Command() == startCmd {
			b.handleStart(ctx, update.Message)
		}
	}
}

// DeliverProfile implements session.Notifier. The identity is the
// participant's Telegram user ID, which for private chats is also the
// chat ID.
func (b *Bot) DeliverProfile(_ context.Context, identity string, profile quiz.Profile, total int) error {
	chatID, err := strconv.ParseInt(identity, 10, 64)
	if err != nil {
		return fmt.Errorf("identity %q is not a chat id: %w", identity, err)
	}
	text := quiz.FormatProfile(profile, total)
	msg := tgbotapi.NewMessage(chatID, text)
	if b.parseMode != "" {
		msg.ParseMode = b.parseMode
	}
	if _, err := b.s.Send(msg); err != nil {
		return fmt.Errorf("send profile to %d: %w", chatID, err)
	}
	return nil
}

// SendTo sends plain text to an arbitrary chat; the daily report job
// uses it for the admin chat.
func (b *Bot) SendTo(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message to %d: %v", chatID, err)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
