package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr       string
	LogLevel       string
	StatePath      string
	AuditLogDir    string
	AdminUserID    string
	MaxHistory     int
	LLMTimeout     time.Duration
	RequestTimeout time.Duration
	OpenAI         OpenAIConfig
	Gateway        GatewayConfig
}

type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}

// GatewayConfig описывает мост к чат-платформе: куда отправлять ответы
// и как узнавать упоминания бота в тексте.
type GatewayConfig struct {
	ReplyURL string
	Secret   string
	BotID    string
	BotName  string
}

func Load() (Config, error) {
	var cfg Config

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.StatePath = getEnv("STATE_PATH", "data/bot_state.json")
	cfg.AuditLogDir = getEnv("AUDIT_LOG_DIR", "logs")

	// Единственный авторизованный пользователь админ-команд.
	cfg.AdminUserID = getEnv("ADMIN_USER_ID", "")
	if cfg.AdminUserID == "" {
		return Config{}, fmt.Errorf("ADMIN_USER_ID is required")
	}

	maxHistory, err := parseInt(getEnv("MAX_HISTORY", "300"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_HISTORY: %w", err)
	}
	cfg.MaxHistory = maxHistory

	llmTimeout, err := parseDuration(getEnv("LLM_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_TIMEOUT: %w", err)
	}
	cfg.LLMTimeout = llmTimeout

	reqTimeout, err := parseDuration(getEnv("HTTP_CLIENT_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_CLIENT_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = reqTimeout

	cfg.OpenAI = OpenAIConfig{
		APIKey:       getEnv("OPENAI_API_KEY", ""),
		BaseURL:      getEnv("OPENAI_BASE_URL", ""),
		DefaultModel: getEnv("DEFAULT_MODEL", ""),
	}
	if cfg.OpenAI.APIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}

	cfg.Gateway = GatewayConfig{
		ReplyURL: getEnv("GATEWAY_REPLY_URL", ""),
		Secret:   getEnv("GATEWAY_SECRET", ""),
		BotID:    getEnv("BOT_USER_ID", ""),
		BotName:  getEnv("BOT_NAME", "MintyBot"),
	}
	if cfg.Gateway.ReplyURL == "" {
		return Config{}, fmt.Errorf("GATEWAY_REPLY_URL is required")
	}

	return cfg, nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("duration is empty")
	}
	return time.ParseDuration(value)
}

func parseInt(value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be positive")
	}
	return parsed, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}
