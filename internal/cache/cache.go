package cache

import (
	"encoding/json"
	"strconv"

	"ticket-relay-bot/internal/logger"

	"github.com/allegro/bigcache/v3"
)

func stateKey(userID int64) string {
	return "chat:" + strconv.FormatInt(userID, 10)
}

func (chatState *Chat) ChangeCache(cache *bigcache.BigCache, userID int64) error {
	data, err := json.Marshal(chatState)
	if err != nil {
		logger.Warning("Error while change state to cache", err)
		return err
	}

	err = cache.Set(stateKey(userID), data)
	logger.Debug("Write state to cache result")
	if err != nil {
		logger.Warning("Error while write state to cache", err)
	}

	return err
}

// ChangeCacheState переводит пользователя на другой экран.
func (chatState *Chat) ChangeCacheState(cache *bigcache.BigCache, userID int64, toState string) error {
	if chatState.CurrentState == toState {
		return nil
	}

	chatState.PreviousState = chatState.CurrentState
	chatState.CurrentState = toState

	return chatState.ChangeCache(cache, userID)
}

// SetAwaiting включает/выключает прием обращения.
func (chatState *Chat) SetAwaiting(cache *bigcache.BigCache, userID int64, awaiting bool) error {
	chatState.AwaitingTicket = awaiting

	return chatState.ChangeCache(cache, userID)
}
