package botconfig_parser

import (
	"fmt"
	"strings"
)

type Levels struct {
	Menu map[string]*Menu `yaml:"menus"`

	// тексты, которые не относятся к экранам меню
	Messages Messages `yaml:"messages"`
}

type Menu struct {
	// текст экрана
	Answer string `yaml:"answer"`

	// кнопки под текстом, по одной в строке
	Buttons []*Button `yaml:"buttons,omitempty"`
}

type Button struct {
	// действие кнопки: menu, instructions, faq, to_admin
	ButtonID string `yaml:"id"`
	// текст кнопки
	ButtonText string `yaml:"text"`
}

// Шаблоны: {ref} заменяется на #ref<номер>, {text} на текст сообщения.
type Messages struct {
	// Я вижу сообщение, но чтобы передать его админу...
	NotInTicketMode string `yaml:"not_in_ticket_mode"`
	// Принято. Номер обращения: {ref}
	TicketAccepted string `yaml:"ticket_accepted"`
	// Новое обращение {ref}:\n\n{text}
	StaffNewTicket string `yaml:"staff_new_ticket"`
	// Ответ по обращению {ref}:\n\n{text}
	UserReply string `yaml:"user_reply"`
	// Отправлено по {ref}.
	StaffDelivered string `yaml:"staff_delivered"`
	// Не нашёл обращение для {ref}
	StaffNotFound string `yaml:"staff_not_found"`
}

// добавить таб в начале каждой строки
func tabLines(input, tabs string) string {
	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = tabs + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (m Menu) View() (menuStr string) {
	menuStr += fmt.Sprintf("\nlen(Answer): %d", len([]rune(m.Answer)))
	menuStr += fmt.Sprintf("\nlen(Buttons): %d", len(m.Buttons))
	for _, b := range m.Buttons {
		menuStr += fmt.Sprintf("\nButton: {%s}", b.View())
	}

	return fmt.Sprintf("%s\n", tabLines(menuStr, "\t"))
}

func (b Button) View() (btnStr string) {
	btnStr += fmt.Sprintf("\nButtonID: %s", b.ButtonID)
	btnStr += fmt.Sprintf("\nButtonText: %s", b.ButtonText)

	return fmt.Sprintf("%s\n", tabLines(btnStr, "\t"))
}
