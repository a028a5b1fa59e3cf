package requests

const CHAT_PRIVATE = "private"

type (
	// Описание объекта - Кнопка inline-клавиатуры
	KeyboardKey struct {
		// callback data
		ID   string `json:"id"`
		Text string `json:"text"`
	}

	// Описание объекта - Входящее сообщение
	Message struct {
		ID       int    `json:"id"`
		ChatID   int64  `json:"chat_id"`
		ChatType string `json:"chat_type"`
		SenderID int64  `json:"sender_id"`
		// автор сообщения - бот
		SenderIsBot bool   `json:"sender_is_bot"`
		Text        string `json:"text"`
		// сообщение, на которое ответили
		ReplyTo *Message `json:"reply_to,omitempty"`
	}

	// Описание объекта - Нажатие inline-кнопки
	Callback struct {
		ChatID   int64  `json:"chat_id"`
		ChatType string `json:"chat_type"`
		SenderID int64  `json:"sender_id"`
		// сообщение с кнопкой, его и редактируем
		MessageID int    `json:"message_id"`
		Data      string `json:"data"`
	}
)

func (m *Message) IsPrivate() bool {
	return m.ChatType == CHAT_PRIVATE
}

func (c *Callback) IsPrivate() bool {
	return c.ChatType == CHAT_PRIVATE
}
