package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tat-igra-bot/internal/analytics"
	"tat-igra-bot/internal/config"
	"tat-igra-bot/internal/scheduler"
	"tat-igra-bot/internal/session"
	"tat-igra-bot/internal/sheets"
	"tat-igra-bot/internal/storage"
	"tat-igra-bot/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	ctx := context.Background()

	creds, err := os.ReadFile(cfg.GoogleCredentialsPath)
	if err != nil {
		log.Fatalf("failed to read Google credentials at %s: %v", cfg.GoogleCredentialsPath, err)
	}
	rowStore, err := sheets.NewClient(ctx, creds, cfg.SpreadsheetID, cfg.WorksheetName)
	if err != nil {
		log.Fatalf("failed to connect to Google Sheets: %v", err)
	}
	store := session.NewStore(rowStore)

	var rec storage.Recorder
	if cfg.EventLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.EventLogPath)
		if err != nil {
			log.Printf("failed to init event recorder: %v", err)
		} else {
			rec = fr
		}
	}

	bot, err := telegram.New(cfg.TelegramBotToken, cfg.WebAppURL, cfg.MessageParseMode)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}
	orch := session.NewOrchestrator(store, bot, rec)
	bot.AttachOrchestrator(orch)

	sched := scheduler.New()
	sched.SetSweepFunction(func(ctx context.Context) error {
		removed, err := store.SweepStale(ctx, cfg.SessionTTL, time.Now())
		if err != nil {
			return err
		}
		if removed > 0 {
			log.Printf("sweep removed %d stale session rows", removed)
		}
		return nil
	})
	if rec != nil && cfg.AdminChatID != 0 {
		sched.SetReportFunction(func(ctx context.Context) error {
			events, err := rec.LoadEvents()
			if err != nil {
				return err
			}
			stats := analytics.AnalyzeDailyEvents(events, time.Now().UTC())
			bot.SendTo(cfg.AdminChatID, stats.GenerateReportSummary())
			return nil
		})
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	log.Printf("Bot connected to Sheets and ready (polling mode).")
	bot.Start(ctx)
}
