package client

import (
	"context"
	"errors"
	"strconv"
	"time"

	"ticket-relay-bot/bot/requests"
	"ticket-relay-bot/internal/logger"

	tele "gopkg.in/telebot.v3"
)

// Client - обертка над telebot, реализует отправку и редактирование сообщений.
type Client struct {
	bot *tele.Bot
}

func New(token string, pollTimeout time.Duration) (*Client, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		// апдейты обрабатываются по одному
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			logger.Warning("Telegram error:", err)
		},
	})
	if err != nil {
		return nil, err
	}
	return &Client{bot: b}, nil
}

func (c *Client) Bot() *tele.Bot {
	return c.bot
}

// Отправить сообщение в чат
func (c *Client) Send(ctx context.Context, chatID int64, text string, keyboard *[][]requests.KeyboardKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Debug("---> send", strconv.FormatInt(chatID, 10))
	_, err := c.bot.Send(tele.ChatID(chatID), text, sendOptions(keyboard))
	return err
}

// Заменить текст и кнопки у сообщения
func (c *Client) Edit(ctx context.Context, chatID int64, messageID int, text string, keyboard *[][]requests.KeyboardKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}

	logger.Debug("---> edit", strconv.FormatInt(chatID, 10), strconv.Itoa(messageID))
	_, err := c.bot.Edit(msg, text, sendOptions(keyboard))
	// повторное нажатие той же кнопки
	if errors.Is(err, tele.ErrSameMessageContent) {
		return nil
	}
	return err
}

func sendOptions(keyboard *[][]requests.KeyboardKey) *tele.SendOptions {
	opts := &tele.SendOptions{DisableWebPagePreview: true}
	if keyboard != nil {
		opts.ReplyMarkup = Markup(keyboard)
	}
	return opts
}

// Markup - inline-клавиатура, data кнопки = ID.
func Markup(keyboard *[][]requests.KeyboardKey) *tele.ReplyMarkup {
	rm := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(*keyboard))
	for _, line := range *keyboard {
		btns := make([]tele.Btn, 0, len(line))
		for _, key := range line {
			btns = append(btns, rm.Data(key.Text, key.ID))
		}
		rows = append(rows, rm.Row(btns...))
	}
	rm.Inline(rows...)
	return rm
}
