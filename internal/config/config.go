package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// Google Sheets
	SpreadsheetID         string `env:"GOOGLE_SHEET_ID,required"`
	WorksheetName         string `env:"GOOGLE_WORKSHEET_NAME" envDefault:"Igraci"`
	GoogleCredentialsPath string `env:"GOOGLE_CREDENTIALS_PATH" envDefault:"google_creds.json"`

	// WebApp serving the quiz UI
	WebAppURL string `env:"WEB_APP_URL,required"`

	// Formatting
	MessageParseMode string `env:"MESSAGE_PARSE_MODE"`

	// Maintenance
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	AdminChatID int64         `env:"ADMIN_CHAT_ID"`

	// Storage
	EventLogPath string `env:"EVENT_LOG_PATH" envDefault:"logs/events.jsonl"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
