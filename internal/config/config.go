package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"ticket-relay-bot/internal/logger"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// STAFF_CHAT_ID - админ-группа, куда уходят обращения.
const STAFF_CHAT_ID int64 = -1003565334153

const (
	DEFAULT_LISTEN       = "0.0.0.0:10000"
	DEFAULT_TICKETS_FILE = "tickets.json"
	DEFAULT_BOT_CONFIG   = "./config/bot.yml"
)

var ErrNoToken = errors.New("переменная окружения BOT_TOKEN не задана")

type (
	// configuration contains the application settings
	Conf struct {
		Server Server `yaml:"server"`

		Telegram Telegram `yaml:"telegram"`

		Storage   Storage   `yaml:"storage"`
		Reference Reference `yaml:"reference"`
		Session   Session   `yaml:"session"`

		BotConfig  string `yaml:"bot_config"`
		RunInDebug bool   `yaml:"-"`
	}

	Server struct {
		Listen string `yaml:"listen"`
	}

	Telegram struct {
		Token string `yaml:"token"`
		// чат сотрудников, из которого принимаются ответы
		StaffChatID int64 `yaml:"staff_chat_id"`
		// таймаут long polling в секундах
		PollTimeout int `yaml:"poll_timeout_seconds"`
	}

	Storage struct {
		// file | sqlite | memory
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	}

	Reference struct {
		Digits      int `yaml:"digits"`
		MaxAttempts int `yaml:"max_attempts"`
	}

	Session struct {
		LifeWindowMinutes int `yaml:"life_window_minutes"`
	}
)

// GetConfig читает yaml (если он есть), затем .env и переменные окружения.
// Отсутствие файла конфига не ошибка: работаем на значениях по умолчанию.
func GetConfig(configPath string, cnf *Conf) error {
	logger.Debug("Loading configuration")

	input, err := os.Open(configPath)
	switch {
	case err == nil:
		defer input.Close()
		if err := yaml.NewDecoder(input).Decode(cnf); err != nil {
			return fmt.Errorf("decode config %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		logger.Info("Config file not found, using defaults:", configPath)
	default:
		return fmt.Errorf("open config %s: %w", configPath, err)
	}

	_ = godotenv.Load(".env")

	cnf.applyEnv()
	cnf.setDefaults()

	return nil
}

func (cnf *Conf) applyEnv() {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cnf.Telegram.Token = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			cnf.Server.Listen = "0.0.0.0:" + v
		} else {
			logger.Warning("PORT is not a number, ignored:", v)
		}
	}
	if v := os.Getenv("TICKETS_FILE"); v != "" {
		cnf.Storage.Path = v
	}
}

func (cnf *Conf) setDefaults() {
	if cnf.Server.Listen == "" {
		cnf.Server.Listen = DEFAULT_LISTEN
	}
	if cnf.Telegram.StaffChatID == 0 {
		cnf.Telegram.StaffChatID = STAFF_CHAT_ID
	}
	if cnf.Telegram.PollTimeout <= 0 {
		cnf.Telegram.PollTimeout = 10
	}
	if cnf.Storage.Driver == "" {
		cnf.Storage.Driver = "file"
	}
	if cnf.Storage.Path == "" {
		switch cnf.Storage.Driver {
		case "sqlite":
			cnf.Storage.Path = "tickets.db"
		default:
			cnf.Storage.Path = DEFAULT_TICKETS_FILE
		}
	}
	if cnf.Reference.Digits <= 0 {
		cnf.Reference.Digits = 5
	}
	if cnf.Reference.MaxAttempts <= 0 {
		cnf.Reference.MaxAttempts = 1000
	}
	if cnf.Session.LifeWindowMinutes <= 0 {
		cnf.Session.LifeWindowMinutes = 24 * 60
	}
	if cnf.BotConfig == "" {
		cnf.BotConfig = DEFAULT_BOT_CONFIG
	}
}

// Validate проверяет то, без чего бот не может стартовать.
func (cnf *Conf) Validate() error {
	if cnf.Telegram.Token == "" {
		return ErrNoToken
	}
	switch cnf.Storage.Driver {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("неизвестный storage.driver: %s", cnf.Storage.Driver)
	}
	// ссылка должна укладываться в тег #ref\d{4,10}
	if cnf.Reference.Digits < 4 || cnf.Reference.Digits > 10 {
		return fmt.Errorf("reference.digits должен быть от 4 до 10, получено %d", cnf.Reference.Digits)
	}
	return nil
}
