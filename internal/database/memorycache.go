package database

import (
	"fmt"
	"time"

	"ticket-relay-bot/internal/logger"

	"github.com/allegro/bigcache/v3"
)

// ConnectInMemoryCache - кеш сессий. Записи живут lifeWindow, дальше сессия
// считается новой.
func ConnectInMemoryCache(lifeWindow time.Duration) *bigcache.BigCache {
	cnf := bigcache.DefaultConfig(lifeWindow)
	cnf.Shards = 64
	cnf.CleanWindow = time.Minute
	cnf.Verbose = false

	cache, err := bigcache.NewBigCache(cnf)
	if err != nil {
		logger.Crit(err)
	}
	return cache
}

// OpenStore открывает хранилище обращений по имени драйвера.
func OpenStore(driver, path string) (TicketStore, error) {
	switch driver {
	case "file":
		return OpenFileStore(path), nil
	case "sqlite":
		return OpenSQLiteStore(path)
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage driver: %s", driver)
}
