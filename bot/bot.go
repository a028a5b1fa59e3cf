package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ticket-relay-bot/bot/requests"
	"ticket-relay-bot/internal/botconfig_parser"
	"ticket-relay-bot/internal/cache"
	"ticket-relay-bot/internal/config"
	"ticket-relay-bot/internal/database"
	"ticket-relay-bot/internal/logger"
	"ticket-relay-bot/internal/ticketref"

	"github.com/allegro/bigcache/v3"
)

// Messenger - то, что бот умеет делать с чатами.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, keyboard *[][]requests.KeyboardKey) error
	Edit(ctx context.Context, chatID int64, messageID int, text string, keyboard *[][]requests.KeyboardKey) error
}

type Bot struct {
	staffChatID int64

	messenger Messenger
	store     database.TicketStore
	cache     *bigcache.BigCache
	menus     *botconfig_parser.Menus
	refs      *ticketref.Generator
}

func New(cnf *config.Conf, messenger Messenger, store database.TicketStore, cache *bigcache.BigCache, menus *botconfig_parser.Menus) *Bot {
	return &Bot{
		staffChatID: cnf.Telegram.StaffChatID,

		messenger: messenger,
		store:     store,
		cache:     cache,
		menus:     menus,
		refs:      ticketref.New(cnf.Reference.Digits, cnf.Reference.MaxAttempts),
	}
}

// Start - команда /start: сбрасываем ожидание и показываем главное меню.
func (b *Bot) Start(ctx context.Context, msg *requests.Message) error {
	if !msg.IsPrivate() {
		return nil
	}

	chatState := cache.GetState(b.cache, msg.SenderID)
	if err := chatState.ChangeCacheState(b.cache, msg.SenderID, database.WELCOME); err != nil {
		return err
	}
	if err := chatState.SetAwaiting(b.cache, msg.SenderID, false); err != nil {
		return err
	}

	text, keyboard := b.menus.Get().Screen(database.WELCOME)
	return b.messenger.Send(ctx, msg.ChatID, text, keyboard)
}

// Button - нажатие кнопки меню. Сообщение с кнопкой перерисовывается.
func (b *Bot) Button(ctx context.Context, cb *requests.Callback) error {
	if !cb.IsPrivate() {
		return nil
	}

	goTo, awaiting, err := Transition(cb.Data)
	if err != nil {
		logger.Debug("Ignore button", cb.Data)
		return nil
	}

	chatState := cache.GetState(b.cache, cb.SenderID)
	if err := chatState.ChangeCacheState(b.cache, cb.SenderID, goTo); err != nil {
		return err
	}
	switch awaiting {
	case AWAITING_SET:
		err = chatState.SetAwaiting(b.cache, cb.SenderID, true)
	case AWAITING_CLEAR:
		err = chatState.SetAwaiting(b.cache, cb.SenderID, false)
	}
	if err != nil {
		return err
	}

	text, keyboard := b.menus.Get().Screen(goTo)
	return b.messenger.Edit(ctx, cb.ChatID, cb.MessageID, text, keyboard)
}

// Receive - любое текстовое сообщение: личка или чат сотрудников.
func (b *Bot) Receive(ctx context.Context, msg *requests.Message) error {
	switch {
	case msg.IsPrivate():
		if strings.HasPrefix(msg.Text, "/") {
			return nil
		}
		return b.PrivateText(ctx, msg)
	case msg.ChatID == b.staffChatID:
		return b.StaffReply(ctx, msg)
	}
	return nil
}

// PrivateText - входящий роутер: обращение или случайное сообщение.
func (b *Bot) PrivateText(ctx context.Context, msg *requests.Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	levels := b.menus.Get()
	chatState := cache.GetState(b.cache, msg.SenderID)

	if !chatState.AwaitingTicket {
		return b.messenger.Send(ctx, msg.ChatID, levels.Messages.NotInTicketMode, levels.GenKeyboard(database.WELCOME))
	}

	ref, err := b.refs.Generate(ctx, database.Exists(b.store))
	if err != nil {
		return fmt.Errorf("generate reference: %w", err)
	}

	tag := ticketref.Tag(ref)

	err = b.store.Put(ctx, ref, database.Ticket{UserID: msg.SenderID, Status: database.STATUS_OPEN})
	if err != nil {
		return fmt.Errorf("save ticket %s: %w", tag, err)
	}
	logger.Event("New ticket", tag, "from", msg.SenderID)

	err = b.messenger.Send(ctx, b.staffChatID, botconfig_parser.Render(levels.Messages.StaffNewTicket, tag, text), nil)
	if err != nil {
		return fmt.Errorf("notify staff about %s: %w", tag, err)
	}

	if err := chatState.SetAwaiting(b.cache, msg.SenderID, false); err != nil {
		logger.Warning("Error while reset awaiting", err)
	}

	return b.messenger.Send(ctx, msg.ChatID, botconfig_parser.Render(levels.Messages.TicketAccepted, tag, text), nil)
}

// StaffReply - исходящий роутер: ответ сотрудника на сообщение бота с #ref.
func (b *Bot) StaffReply(ctx context.Context, msg *requests.Message) error {
	if msg.ChatID != b.staffChatID || msg.Text == "" {
		return nil
	}

	original := msg.ReplyTo
	if original == nil || !original.SenderIsBot {
		return nil
	}

	ref, ok := ticketref.Extract(original.Text)
	if !ok {
		return nil
	}

	levels := b.menus.Get()
	tag := ticketref.Tag(ref)

	ticket, found, err := b.store.Get(ctx, ref)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", tag, err)
	}
	if !found {
		return b.messenger.Send(ctx, b.staffChatID, botconfig_parser.Render(levels.Messages.StaffNotFound, tag, msg.Text), nil)
	}
	if ticket.UserID == 0 {
		return nil
	}

	err = b.messenger.Send(ctx, ticket.UserID, botconfig_parser.Render(levels.Messages.UserReply, tag, msg.Text), nil)
	if err != nil {
		return fmt.Errorf("reply to %s: %w", tag, err)
	}
	logger.Event("Reply delivered", tag, "to", ticket.UserID)

	return b.messenger.Send(ctx, b.staffChatID, botconfig_parser.Render(levels.Messages.StaffDelivered, tag, msg.Text), nil)
}

// IsKeyspaceExhausted - номера кончились, нужен больший reference.digits.
func IsKeyspaceExhausted(err error) bool {
	return errors.Is(err, ticketref.ErrKeyspaceExhausted)
}
