package cache

import (
	"encoding/json"
	"errors"
	"strconv"

	"ticket-relay-bot/internal/database"
	"ticket-relay-bot/internal/logger"

	"github.com/allegro/bigcache/v3"
)

func newChat() Chat {
	return Chat{
		PreviousState: database.WELCOME,
		CurrentState:  database.WELCOME,
	}
}

// GetState - сессия пользователя; если ее нет или она протухла - новая.
func GetState(cache *bigcache.BigCache, userID int64) Chat {
	b, err := cache.Get(stateKey(userID))
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			logger.Warning("Error while read state from cache", err)
		}
		logger.Debug("No state in cache for " + strconv.FormatInt(userID, 10))
		return newChat()
	}

	var chatState Chat
	if err := json.Unmarshal(b, &chatState); err != nil {
		logger.Warning("Error while decoding state", err)
		return newChat()
	}

	return chatState
}

// IsAwaiting - ждем ли от пользователя текст обращения.
func IsAwaiting(cache *bigcache.BigCache, userID int64) bool {
	return GetState(cache, userID).AwaitingTicket
}
