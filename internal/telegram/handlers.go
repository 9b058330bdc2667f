package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tat-igra-bot/internal/session"
)

// answerPayload is the JSON the WebApp sends for each answered question.
type answerPayload struct {
	Question int    `json:"question"`
	Answer   string `json:"answer"`
}

// handleStart begins a session and replies with the WebApp button. A
// storage failure at this point is the one error the participant sees.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	identity := strconv.FormatInt(msg.From.ID, 10)
	log.Printf("start requested by %s (@%s)", identity, msg.From.UserName)

	if err := b.orch.Start(ctx, identity, time.Now()); err != nil {
		log.Printf("failed to start session for %s: %v", identity, err)
		b.sendMessage(msg.Chat.ID, "Greška pri inicijalizaciji igre u bazi podataka. Pokušajte ponovo.")
		return
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{
				Text:   "🚀 POKRENI TAT IGRA TEST",
				WebApp: &tgbotapi.WebAppInfo{URL: b.webAppURL},
			},
		),
	)
	out := tgbotapi.NewMessage(msg.Chat.ID,
		"Dobrodošli u TAT IGRA TEST! Molimo Vas da odgovorite na 10 pitanja u WebApp prozoru.\n\n"+
			"Vaši rezultati će biti odmah generisani i poslati ovde.")
	out.ReplyMarkup = kb
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send start message: %v", err)
	}
}

// handleWebAppData processes one answer event. Malformed payloads are
// dropped with a warning; mid-session storage failures are logged but
// stay silent towards the participant.
func (b *Bot) handleWebAppData(ctx context.Context, msg *tgbotapi.Message) {
	identity := strconv.FormatInt(msg.From.ID, 10)

	var payload answerPayload
	if err := json.Unmarshal([]byte(msg.WebAppData.Data), &payload); err != nil {
		log.Printf("malformed WebApp payload from %s: %v", identity, err)
		return
	}
	if payload.Question == 0 || payload.Answer == "" {
		log.Printf("malformed WebApp payload from %s: %q", identity, msg.WebAppData.Data)
		return
	}

	err := b.orch.Answer(ctx, identity, payload.Question, payload.Answer)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrFinalizing):
		log.Printf("duplicate final answer from %s dropped", identity)
	case errors.Is(err, session.ErrNotFound):
		log.Printf("answer from %s without a session: %v", identity, err)
	default:
		log.Printf("failed to process answer from %s: %v", identity, err)
	}
}
