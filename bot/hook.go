package bot

import (
	"context"

	"ticket-relay-bot/internal/logger"
	"ticket-relay-bot/internal/telegram/client"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"
)

// InitHooks вешает обработчики telebot на методы бота.
func InitHooks(tb *tele.Bot, b *Bot) {
	logger.Info("Init telegram handlers...")

	tb.Handle("/start", func(c tele.Context) error {
		return dispatch("start", func(ctx context.Context) error {
			return b.Start(ctx, client.MessageFrom(c.Message()))
		})
	})

	tb.Handle(tele.OnCallback, func(c tele.Context) error {
		// на callback отвечаем всегда, иначе у пользователя крутятся часики
		if err := c.Respond(); err != nil {
			logger.Warning("Error while answer callback", err)
		}

		cb := client.CallbackFrom(c.Callback())
		if cb == nil || cb.ChatID == 0 {
			return nil
		}
		return dispatch("button", func(ctx context.Context) error {
			return b.Button(ctx, cb)
		})
	})

	tb.Handle(tele.OnText, func(c tele.Context) error {
		return dispatch("text", func(ctx context.Context) error {
			return b.Receive(ctx, client.MessageFrom(c.Message()))
		})
	})
}

// dispatch обрабатывает один апдейт. Ошибки только логируются: повторов нет.
func dispatch(name string, fn func(ctx context.Context) error) error {
	trace := uuid.NewString()
	logger.Debug("<--- update", name, trace)

	if err := fn(context.Background()); err != nil {
		if IsKeyspaceExhausted(err) {
			logger.Warning("Номера обращений закончились, увеличьте reference.digits:", err)
			return nil
		}
		logger.Warning("Error while handle", name, trace, err)
	}
	return nil
}
