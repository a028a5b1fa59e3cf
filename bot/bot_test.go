package bot

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"ticket-relay-bot/bot/requests"
	"ticket-relay-bot/internal/botconfig_parser"
	"ticket-relay-bot/internal/cache"
	"ticket-relay-bot/internal/config"
	"ticket-relay-bot/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	staffChat = int64(-1003565334153)
	userID    = int64(777)
)

type sent struct {
	ChatID    int64
	MessageID int
	Text      string
	Keyboard  *[][]requests.KeyboardKey
	Edit      bool
}

type fakeMessenger struct {
	sent    []sent
	failFor map[int64]error
}

func (f *fakeMessenger) Send(_ context.Context, chatID int64, text string, keyboard *[][]requests.KeyboardKey) error {
	if err := f.failFor[chatID]; err != nil {
		return err
	}
	f.sent = append(f.sent, sent{ChatID: chatID, Text: text, Keyboard: keyboard})
	return nil
}

func (f *fakeMessenger) Edit(_ context.Context, chatID int64, messageID int, text string, keyboard *[][]requests.KeyboardKey) error {
	f.sent = append(f.sent, sent{ChatID: chatID, MessageID: messageID, Text: text, Keyboard: keyboard, Edit: true})
	return nil
}

func (f *fakeMessenger) to(chatID int64) []sent {
	var out []sent
	for _, s := range f.sent {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

type fixture struct {
	bot       *Bot
	messenger *fakeMessenger
	store     *database.MemoryStore
	menus     *botconfig_parser.Menus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cnf := &config.Conf{}
	cnf.Telegram.StaffChatID = staffChat
	cnf.Reference.Digits = 5
	cnf.Reference.MaxAttempts = 1000

	menus, err := botconfig_parser.InitLevels(filepath.Join(t.TempDir(), "bot.yml"))
	require.NoError(t, err)

	f := &fixture{
		messenger: &fakeMessenger{failFor: map[int64]error{}},
		store:     database.NewMemoryStore(),
		menus:     menus,
	}
	f.bot = New(cnf, f.messenger, f.store, database.ConnectInMemoryCache(time.Hour), menus)
	return f
}

func private(text string) *requests.Message {
	return &requests.Message{ID: 1, ChatID: userID, ChatType: requests.CHAT_PRIVATE, SenderID: userID, Text: text}
}

func press(data string) *requests.Callback {
	return &requests.Callback{ChatID: userID, ChatType: requests.CHAT_PRIVATE, SenderID: userID, MessageID: 10, Data: data}
}

func staffReply(text, repliedTo string) *requests.Message {
	return &requests.Message{
		ID: 2, ChatID: staffChat, ChatType: "supergroup", SenderID: 1, Text: text,
		ReplyTo: &requests.Message{ID: 1, ChatID: staffChat, ChatType: "supergroup", SenderIsBot: true, Text: repliedTo},
	}
}

func (f *fixture) awaiting() bool {
	return cache.IsAwaiting(f.bot.cache, userID)
}

var refRe = regexp.MustCompile(`#ref(\d+)`)

func TestStartShowsWelcome(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bot.Start(context.Background(), private("/start")))

	out := f.messenger.to(userID)
	require.Len(t, out, 1)
	welcome, _ := f.menus.Get().Screen(database.WELCOME)
	assert.Equal(t, welcome, out[0].Text)
	require.NotNil(t, out[0].Keyboard)
	assert.Len(t, *out[0].Keyboard, 3)
	assert.False(t, f.awaiting())
}

func TestStartIgnoredOutsidePrivate(t *testing.T) {
	f := newFixture(t)

	msg := private("/start")
	msg.ChatType = "group"
	require.NoError(t, f.bot.Start(context.Background(), msg))
	assert.Empty(t, f.messenger.sent)
}

func TestStartResetsAwaiting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.bot.Button(ctx, press(database.ACTION_TO_ADMIN)))
	require.True(t, f.awaiting())

	require.NoError(t, f.bot.Start(ctx, private("/start")))
	assert.False(t, f.awaiting())
}

func TestButtonsTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	levels := f.menus.Get()

	steps := []struct {
		action   string
		screen   string
		awaiting bool
	}{
		{database.ACTION_INSTRUCTIONS, database.INSTRUCTIONS, false},
		{database.ACTION_MENU, database.WELCOME, false},
		{database.ACTION_FAQ, database.FAQ, false},
		{database.ACTION_MENU, database.WELCOME, false},
		{database.ACTION_TO_ADMIN, database.ADMIN_PROMPT, true},
		{database.ACTION_MENU, database.WELCOME, false},
	}
	for _, step := range steps {
		require.NoError(t, f.bot.Button(ctx, press(step.action)))

		last := f.messenger.sent[len(f.messenger.sent)-1]
		text, kb := levels.Screen(step.screen)
		assert.True(t, last.Edit)
		assert.Equal(t, 10, last.MessageID)
		assert.Equal(t, text, last.Text)
		assert.Equal(t, kb, last.Keyboard)
		assert.Equal(t, step.awaiting, f.awaiting(), step.action)
		assert.Equal(t, step.screen, cache.GetState(f.bot.cache, userID).CurrentState)
	}
}

func TestUnknownButtonIgnored(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bot.Button(context.Background(), press("exec")))
	assert.Empty(t, f.messenger.sent)
}

func TestTicketSubmissionFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.bot.Button(ctx, press(database.ACTION_TO_ADMIN)))
	f.messenger.sent = nil

	require.NoError(t, f.bot.Receive(ctx, private("my course won't open")))

	tickets, err := f.store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	var ref string
	for k, v := range tickets {
		ref = k
		assert.Equal(t, database.Ticket{UserID: userID, Status: database.STATUS_OPEN}, v)
	}
	assert.Regexp(t, `^[1-9][0-9]{4}$`, ref)

	staff := f.messenger.to(staffChat)
	require.Len(t, staff, 1)
	assert.Contains(t, staff[0].Text, "#ref"+ref)
	assert.Contains(t, staff[0].Text, "my course won't open")

	user := f.messenger.to(userID)
	require.Len(t, user, 1)
	assert.Contains(t, user[0].Text, "#ref"+ref)
	assert.False(t, f.awaiting())

	// второе сообщение без кнопки - не обращение
	f.messenger.sent = nil
	require.NoError(t, f.bot.Receive(ctx, private("and another thing")))

	user = f.messenger.to(userID)
	require.Len(t, user, 1)
	assert.Equal(t, f.menus.Get().Messages.NotInTicketMode, user[0].Text)
	assert.NotNil(t, user[0].Keyboard)
	assert.Empty(t, f.messenger.to(staffChat))

	after, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, tickets, after)
}

func TestEmptyTextIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.bot.Button(ctx, press(database.ACTION_TO_ADMIN)))
	f.messenger.sent = nil

	require.NoError(t, f.bot.Receive(ctx, private("   \n\t")))
	assert.Empty(t, f.messenger.sent)
	assert.True(t, f.awaiting())
}

func TestCommandsNotCapturedAsTickets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.bot.Button(ctx, press(database.ACTION_TO_ADMIN)))
	f.messenger.sent = nil

	require.NoError(t, f.bot.Receive(ctx, private("/help")))
	assert.Empty(t, f.messenger.sent)
	assert.True(t, f.awaiting())
}

func TestStaffSendFailureKeepsAwaiting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.bot.Button(ctx, press(database.ACTION_TO_ADMIN)))
	f.messenger.sent = nil
	f.messenger.failFor[staffChat] = errors.New("forbidden")

	assert.Error(t, f.bot.Receive(ctx, private("help")))
	assert.Empty(t, f.messenger.to(userID))
	assert.True(t, f.awaiting())
}

func TestStaffReplyDelivered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Put(ctx, "54321", database.Ticket{UserID: userID, Status: database.STATUS_OPEN}))

	require.NoError(t, f.bot.Receive(ctx, staffReply("Try resetting your password", "Новое обращение #ref54321:\n\nmy course won't open")))

	user := f.messenger.to(userID)
	require.Len(t, user, 1)
	assert.Contains(t, user[0].Text, "#ref54321")
	assert.Contains(t, user[0].Text, "Try resetting your password")

	staff := f.messenger.to(staffChat)
	require.Len(t, staff, 1)
	assert.Contains(t, staff[0].Text, "#ref54321")
}

func TestStaffReplyUnknownReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Put(ctx, "54321", database.Ticket{UserID: userID, Status: database.STATUS_OPEN}))
	f.store.Delete("54321")

	require.NoError(t, f.bot.Receive(ctx, staffReply("Try resetting your password", "Новое обращение #ref54321:\n\nhelp")))

	assert.Empty(t, f.messenger.to(userID))
	staff := f.messenger.to(staffChat)
	require.Len(t, staff, 1)
	assert.Contains(t, staff[0].Text, "#ref54321")
	assert.Equal(t, botconfig_parser.Render(f.menus.Get().Messages.StaffNotFound, "#ref54321", ""), staff[0].Text)
}

func TestStaffMessagesFiltered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Put(ctx, "54321", database.Ticket{UserID: userID, Status: database.STATUS_OPEN}))

	notReply := staffReply("hi", "")
	notReply.ReplyTo = nil

	humanAnchor := staffReply("hi", "#ref54321")
	humanAnchor.ReplyTo.SenderIsBot = false

	otherChat := staffReply("hi", "#ref54321")
	otherChat.ChatID = -42

	cases := map[string]*requests.Message{
		"not a reply":  notReply,
		"human anchor": humanAnchor,
		"no tag":       staffReply("hi", "Отправлено."),
		"short tag":    staffReply("hi", "#ref12"),
		"empty reply":  staffReply("", "#ref54321"),
		"wrong chat":   otherChat,
	}
	for name, msg := range cases {
		require.NoError(t, f.bot.Receive(ctx, msg), name)
		assert.Empty(t, f.messenger.sent, name)
	}
}

func TestRoundTripThroughStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.bot.Button(ctx, press(database.ACTION_TO_ADMIN)))
	require.NoError(t, f.bot.Receive(ctx, private("нет доступа")))

	announce := f.messenger.to(staffChat)[0].Text
	m := refRe.FindStringSubmatch(announce)
	require.NotNil(t, m)

	f.messenger.sent = nil
	require.NoError(t, f.bot.Receive(ctx, staffReply("Проверьте почту", announce)))

	user := f.messenger.to(userID)
	require.Len(t, user, 1)
	assert.Equal(t, "Ответ по обращению #ref"+m[1]+":\n\nПроверьте почту", user[0].Text)
	assert.Equal(t, "Отправлено по #ref"+m[1]+".", f.messenger.to(staffChat)[0].Text)
}

func TestTransition(t *testing.T) {
	screen, awaiting, err := Transition(database.ACTION_TO_ADMIN)
	require.NoError(t, err)
	assert.Equal(t, database.ADMIN_PROMPT, screen)
	assert.Equal(t, AWAITING_SET, awaiting)

	_, _, err = Transition("nope")
	assert.ErrorIs(t, err, ErrUnknownAction)
}
