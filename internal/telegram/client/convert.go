package client

import (
	"strings"

	"ticket-relay-bot/bot/requests"

	tele "gopkg.in/telebot.v3"
)

func MessageFrom(m *tele.Message) *requests.Message {
	if m == nil {
		return nil
	}

	msg := &requests.Message{
		ID:   m.ID,
		Text: m.Text,
	}
	if m.Chat != nil {
		msg.ChatID = m.Chat.ID
		msg.ChatType = string(m.Chat.Type)
	}
	if m.Sender != nil {
		msg.SenderID = m.Sender.ID
		msg.SenderIsBot = m.Sender.IsBot
	}
	if m.ReplyTo != nil {
		msg.ReplyTo = MessageFrom(m.ReplyTo)
	}
	return msg
}

func CallbackFrom(cb *tele.Callback) *requests.Callback {
	if cb == nil {
		return nil
	}

	// telebot помечает data кнопок с unique символом \f
	data := strings.TrimPrefix(cb.Data, "\f")
	if i := strings.IndexByte(data, '|'); i >= 0 {
		data = data[:i]
	}

	callback := &requests.Callback{Data: data}
	if cb.Sender != nil {
		callback.SenderID = cb.Sender.ID
	}
	if cb.Message != nil {
		callback.MessageID = cb.Message.ID
		if cb.Message.Chat != nil {
			callback.ChatID = cb.Message.Chat.ID
			callback.ChatType = string(cb.Message.Chat.Type)
		}
	}
	return callback
}
