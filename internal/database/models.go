package database

import "context"

// экраны диалога
const (
	WELCOME      = "welcome"
	INSTRUCTIONS = "instructions"
	FAQ          = "faq"
	ADMIN_PROMPT = "admin_prompt"
)

// действия кнопок (callback data)
const (
	ACTION_MENU         = "menu"
	ACTION_INSTRUCTIONS = "instructions"
	ACTION_FAQ          = "faq"
	ACTION_TO_ADMIN     = "to_admin"
)

const STATUS_OPEN = "open"

type (
	// Ticket - обращение пользователя. Ключ хранилища - номер обращения.
	Ticket struct {
		// чат, из которого пришло обращение; сюда уходят ответы
		UserID int64 `json:"user_id"`
		// всегда "open", нигде не меняется
		Status string `json:"status"`
	}

	// TicketStore - хранилище обращений. Пишет в него только входящий роутер.
	TicketStore interface {
		Get(ctx context.Context, ref string) (Ticket, bool, error)
		Put(ctx context.Context, ref string, ticket Ticket) error
		List(ctx context.Context) (map[string]Ticket, error)
		Close() error
	}
)

// Exists - обертка для генератора номеров.
func Exists(store TicketStore) func(ctx context.Context, ref string) (bool, error) {
	return func(ctx context.Context, ref string) (bool, error) {
		_, ok, err := store.Get(ctx, ref)
		return ok, err
	}
}
