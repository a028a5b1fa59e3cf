package bot

import (
	"errors"

	"ticket-relay-bot/internal/database"
)

var ErrUnknownAction = errors.New("unknown button action")

// Awaiting - что кнопка делает с флагом приема обращения.
type Awaiting int

const (
	AWAITING_KEEP Awaiting = iota
	AWAITING_SET
	AWAITING_CLEAR
)

// Transition - экран, на который ведет кнопка. Зависит только от кнопки:
// меню звездой вокруг welcome.
func Transition(action string) (string, Awaiting, error) {
	switch action {
	case database.ACTION_MENU:
		return database.WELCOME, AWAITING_CLEAR, nil
	case database.ACTION_INSTRUCTIONS:
		return database.INSTRUCTIONS, AWAITING_KEEP, nil
	case database.ACTION_FAQ:
		return database.FAQ, AWAITING_KEEP, nil
	case database.ACTION_TO_ADMIN:
		return database.ADMIN_PROMPT, AWAITING_SET, nil
	}
	return "", AWAITING_KEEP, ErrUnknownAction
}
