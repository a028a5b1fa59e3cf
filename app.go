package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"ticket-relay-bot/bot"
	"ticket-relay-bot/internal/botconfig_parser"
	"ticket-relay-bot/internal/config"
	"ticket-relay-bot/internal/database"
	"ticket-relay-bot/internal/health"
	"ticket-relay-bot/internal/logger"
	"ticket-relay-bot/internal/telegram/client"

	"github.com/gin-gonic/gin"
	"gopkg.in/fsnotify.v1"
)

func main() {
	if err := Execute(); err != nil {
		logger.Crit(err)
	}
}

// loadConfig - общий для всех команд разбор конфигурации.
func loadConfig(opts *options) (*config.Conf, error) {
	cnf := &config.Conf{}
	if err := config.GetConfig(opts.configFile, cnf); err != nil {
		return nil, err
	}
	cnf.RunInDebug = opts.debug
	if opts.botConfig != "" {
		cnf.BotConfig = opts.botConfig
	}
	return cnf, nil
}

func run(opts *options) error {
	logFile := logger.InitLogger(opts.debug, opts.configFile)
	if logFile != nil {
		defer logFile.Close()
	}
	logger.Info("Application starting...")

	cnf, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := cnf.Validate(); err != nil {
		return err
	}

	if cnf.RunInDebug {
		logger.Debug("Config:", cnf.Storage, cnf.Reference, cnf.Server)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := database.OpenStore(cnf.Storage.Driver, cnf.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	cache := database.ConnectInMemoryCache(time.Duration(cnf.Session.LifeWindowMinutes) * time.Minute)
	defer cache.Close()

	menus, err := botconfig_parser.InitLevels(cnf.BotConfig)
	if err != nil {
		return err
	}

	tg, err := client.New(cnf.Telegram.Token, time.Duration(cnf.Telegram.PollTimeout)*time.Second)
	if err != nil {
		return err
	}

	b := bot.New(cnf, tg, store, cache, menus)
	bot.InitHooks(tg.Bot(), b)

	srv := health.New(cnf.Server.Listen)
	go func() {
		logger.Info("Health server listening on", cnf.Server.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Crit("Listen:", err)
		}
	}()

	watcher, err := watchBotConfig(cnf.BotConfig, menus)
	if err != nil {
		logger.Warning("Hot reload disabled:", err)
	} else {
		defer watcher.Close()
	}

	go tg.Bot().Start()
	logger.Info("Application started")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	// kill -SIGHUP XXXX
	// kill -SIGINT XXXX or Ctrl+c
	sig := <-signals
	logger.Info("Catch OS signal! Exiting...", sig.String())

	tg.Bot().Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warning("App forced to shutdown:", err)
	}

	logger.Info("Application stopped correctly!")
	return nil
}

// watchBotConfig следит за папкой конфига бота и перечитывает меню на лету.
// Следим за папкой, а не файлом: редакторы сохраняют через rename.
func watchBotConfig(botConfig string, menus *botconfig_parser.Menus) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target := filepath.Clean(botConfig)

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				logger.Debug("event:", event.String())
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := menus.UpdateLevels(botConfig); err != nil {
					logger.Warning("Не корректный конфиг бота!", err)
					continue
				}
				logger.Info("Bot config reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warning("watcher error:", err)
			}
		}
	}()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}
