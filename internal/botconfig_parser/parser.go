package botconfig_parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"ticket-relay-bot/bot/requests"
	"ticket-relay-bot/internal/database"
	"ticket-relay-bot/internal/logger"

	"github.com/goccy/go-yaml"
)

const (
	PLACEHOLDER_REF  = "{ref}"
	PLACEHOLDER_TEXT = "{text}"
)

var (
	screens = []string{database.WELCOME, database.INSTRUCTIONS, database.FAQ, database.ADMIN_PROMPT}
	actions = []string{database.ACTION_MENU, database.ACTION_INSTRUCTIONS, database.ACTION_FAQ, database.ACTION_TO_ADMIN}
)

// Menus - актуальная конфигурация меню. Обновляется при изменении файла.
type Menus struct {
	lock   sync.RWMutex
	levels *Levels
}

// InitLevels загружает меню. Отсутствующий файл - меню по умолчанию.
func InitLevels(path string) (*Menus, error) {
	levels, err := loadMenus(path)
	if err != nil {
		return nil, err
	}
	return &Menus{levels: levels}, nil
}

// Get - снимок конфигурации, его можно читать без блокировок.
func (m *Menus) Get() *Levels {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.levels
}

// UpdateLevels перечитывает файл; при ошибке остается старая конфигурация.
func (m *Menus) UpdateLevels(path string) error {
	newLevels, err := loadMenus(path)
	if err != nil {
		return err
	}

	m.lock.Lock()
	m.levels = newLevels
	m.lock.Unlock()
	return nil
}

func loadMenus(pathCnf string) (*Levels, error) {
	menu := &Levels{}

	input, err := os.ReadFile(pathCnf)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("Bot config not found, using default menus:", pathCnf)
	case err != nil:
		return nil, err
	default:
		dec := yaml.NewDecoder(bytes.NewBuffer(input), yaml.ReferenceDirs(path.Dir(pathCnf)), yaml.RecursiveDir(true))
		if err := dec.Decode(menu); err != nil {
			return nil, err
		}
	}

	// проверяем все меню
	return menu, menu.checkMenus()
}

func defaultWelcomeMenu() *Menu {
	return &Menu{
		Answer: "Привет, на связи команда Нации Лидеров! Выберите подходящий раздел.\n\n" +
			"Если инструкции не помогли или вы хотите поделиться с нами важной информацией — нажмите «Написать админу».",
		Buttons: []*Button{
			{ButtonID: database.ACTION_INSTRUCTIONS, ButtonText: "⛔️ Ошибка при регистрации на платформе"},
			{ButtonID: database.ACTION_FAQ, ButtonText: "❓ Не получается записаться на курс"},
			{ButtonID: database.ACTION_TO_ADMIN, ButtonText: "✉️ Написать админу"},
		},
	}
}

func defaultBackButtons() []*Button {
	return []*Button{{ButtonID: database.ACTION_MENU, ButtonText: "⬅️ Назад в меню"}}
}

func defaultInstructionsMenu() *Menu {
	return &Menu{
		Answer: "⛔️ Ошибка при регистрации на платформе \n\n" +
			"Возможно, вы уже регистрировались на нашей платформе раньше. \n\n" +
			"Попробуйте пройти через функцию «Забыли пароль?»: \n" +
			"• Перейти по ссылке  https://school365edu.org/login/forgot_password.php \n" +
			"• В поле <Email> введите адрес электронной почты, на которую пытались зарегистрироваться. " +
			"Обратите внимание: если поле <Логин> автоматически заполнилось - удалите из него все данные, " +
			"должно быть заполнено только поле <Email> \n" +
			"• Нажмите кнопку <Найти> \n" +
			"• Если вы регистрировались ранее на платформе, то на указанный вами адрес электронной почты " +
			"придет письмо со ссылкой для восстановления пароля \n" +
			"• Если e-mail не найден - нажмите «Назад в Меню» --> «✉️ Написать админу»",
		Buttons: defaultBackButtons(),
	}
}

func defaultFaqMenu() *Menu {
	return &Menu{
		Answer: "❓ Не получается записаться на курс\n\n" +
			"• придумать.\n\n" +
			"Если не помогло — нажми «Назад в Меню» --> «✉️ Написать админу».",
		Buttons: defaultBackButtons(),
	}
}

func defaultAdminPromptMenu() *Menu {
	return &Menu{
		Answer: "✉️ Написать админу\n\n" +
			"Пожалуйста, опишите проблему. По возможности, приложите скриншоты.\n" +
			"Я передам информацию в админ-чат.\n" +
			"Обратите внимание: ответ администратора будет дан в рабочее время " +
			"(в будние дни с 10:00 до 18:00 по центральному европейскому времени)",
		Buttons: defaultBackButtons(),
	}
}

func defaultMenu(screen string) *Menu {
	switch screen {
	case database.WELCOME:
		return defaultWelcomeMenu()
	case database.INSTRUCTIONS:
		return defaultInstructionsMenu()
	case database.FAQ:
		return defaultFaqMenu()
	case database.ADMIN_PROMPT:
		return defaultAdminPromptMenu()
	}
	return nil
}

// настроить тексты по умолчанию, которые не настроены
func setDefaultMessages(l *Levels) {
	if l.Messages.NotInTicketMode == "" {
		l.Messages.NotInTicketMode = "Я вижу сообщение, но чтобы передать его админу, нажми кнопку «✉️ Написать админу»."
	}
	if l.Messages.TicketAccepted == "" {
		l.Messages.TicketAccepted = "Принято. Номер обращения: {ref}"
	}
	if l.Messages.StaffNewTicket == "" {
		l.Messages.StaffNewTicket = "Новое обращение {ref}:\n\n{text}"
	}
	if l.Messages.UserReply == "" {
		l.Messages.UserReply = "Ответ по обращению {ref}:\n\n{text}"
	}
	if l.Messages.StaffDelivered == "" {
		l.Messages.StaffDelivered = "Отправлено по {ref}."
	}
	if l.Messages.StaffNotFound == "" {
		l.Messages.StaffNotFound = "Не нашёл обращение для {ref} (нет в хранилище)."
	}
}

func (l *Levels) checkMenus() error {
	if l.Menu == nil {
		l.Menu = make(map[string]*Menu)
	}
	for _, screen := range screens {
		if _, ok := l.Menu[screen]; !ok {
			l.Menu[screen] = defaultMenu(screen)
		}
	}

	setDefaultMessages(l)

	for k, v := range l.Menu {
		if !slices.Contains(screens, k) {
			return fmt.Errorf("неизвестное меню: %s", k)
		}
		if v == nil || strings.TrimSpace(v.Answer) == "" {
			return fmt.Errorf("отсутствует сообщение сопровождающее меню: %s", k)
		}
		if len(v.Buttons) == 0 {
			return fmt.Errorf("отсутствуют кнопки: %s %s", k, v.View())
		}
		for _, b := range v.Buttons {
			if b == nil {
				return fmt.Errorf("пустая кнопка: %s", k)
			}
			if b.ButtonText == "" {
				return fmt.Errorf("текст у кнопки не может быть пустой %s {%s}", k, b.View())
			}
			if !slices.Contains(actions, b.ButtonID) {
				return fmt.Errorf("кнопка ведет на несуществующее действие: %s {%s}", k, b.View())
			}
		}
	}

	// без номера в тексте ответы сотрудников не найдут обращение
	if !strings.Contains(l.Messages.StaffNewTicket, PLACEHOLDER_REF) {
		return fmt.Errorf("messages.staff_new_ticket должен содержать %s", PLACEHOLDER_REF)
	}
	if !strings.Contains(l.Messages.TicketAccepted, PLACEHOLDER_REF) {
		return fmt.Errorf("messages.ticket_accepted должен содержать %s", PLACEHOLDER_REF)
	}
	if !strings.Contains(l.Messages.UserReply, PLACEHOLDER_TEXT) {
		return fmt.Errorf("messages.user_reply должен содержать %s", PLACEHOLDER_TEXT)
	}
	return nil
}

// GenKeyboard - создать клавиатуру
func (l *Levels) GenKeyboard(menu string) *[][]requests.KeyboardKey {
	m, ok := l.Menu[menu]
	if !ok {
		return nil
	}
	answer := &[][]requests.KeyboardKey{}
	for _, v := range m.Buttons {
		*answer = append(*answer, []requests.KeyboardKey{{ID: v.ButtonID, Text: v.ButtonText}})
	}
	if len(*answer) == 0 {
		return nil
	}
	return answer
}

// Screen - текст и клавиатура экрана.
func (l *Levels) Screen(menu string) (string, *[][]requests.KeyboardKey) {
	m, ok := l.Menu[menu]
	if !ok {
		return "", nil
	}
	return m.Answer, l.GenKeyboard(menu)
}

// Render подставляет номер обращения и текст в шаблон.
func Render(template, tag, text string) string {
	return strings.NewReplacer(PLACEHOLDER_REF, tag, PLACEHOLDER_TEXT, text).Replace(template)
}
