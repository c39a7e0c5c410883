package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"storebot/internal/bot"
	"storebot/internal/infra/dedupe"
	"storebot/internal/infra/image"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type event struct {
	session int64
	kind    string
	payload string
}

type fakeHandler struct {
	mu     sync.Mutex
	events []event
	delay  time.Duration
	panics bool
}

func (h *fakeHandler) record(e event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *fakeHandler) HandleText(ctx context.Context, sessionID int64, text string, r bot.Replier) error {
	if h.panics {
		panic("boom")
	}
	time.Sleep(h.delay)
	h.record(event{sessionID, "text", text})
	return r.SendText(ctx, "echo: "+text)
}

func (h *fakeHandler) HandleCallback(ctx context.Context, sessionID int64, token string, r bot.Replier) error {
	h.record(event{sessionID, "callback", token})
	return nil
}

// 個人チャットでは送信者IDとチャットIDが同じ
func textUpdate(id int, chatID int64, text string) tgbotapi.Update {
	return groupTextUpdate(id, chatID, chatID, text)
}

func groupTextUpdate(id int, chatID, fromID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: fromID},
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: text,
		},
	}
}

func TestRunner_SerializesPerSessionInOrder(t *testing.T) {
	h := &fakeHandler{delay: 5 * time.Millisecond}
	r := NewRunner(&fakeSender{}, h, nil, nil)

	for i := 1; i <= 5; i++ {
		r.Enqueue(textUpdate(i, 100, string(rune('a'+i-1))))
	}
	r.Enqueue(textUpdate(6, 200, "other"))
	r.Wait()

	var mine []string
	for _, e := range h.events {
		if e.session == 100 {
			mine = append(mine, e.payload)
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, mine)
	assert.Len(t, h.events, 6)
}

func TestRunner_DropsDuplicateUpdates(t *testing.T) {
	h := &fakeHandler{}
	r := NewRunner(&fakeSender{}, h, dedupe.NewMemoryDeduper(time.Minute), nil)

	r.Enqueue(textUpdate(1, 100, "hi"))
	r.Enqueue(textUpdate(1, 100, "hi"))
	r.Wait()

	assert.Len(t, h.events, 1)
}

func TestRunner_CallbackAnsweredAndRouted(t *testing.T) {
	sender := &fakeSender{}
	h := &fakeHandler{}
	r := NewRunner(sender, h, nil, nil)

	r.Enqueue(tgbotapi.Update{
		UpdateID: 3,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{ID: 7},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 300}},
			Data:    "addcart_5",
		},
	})
	r.Wait()

	require.Len(t, h.events, 1)
	assert.Equal(t, event{7, "callback", "addcart_5"}, h.events[0])
	require.Len(t, sender.requests, 1)
	cb, ok := sender.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.Equal(t, "cb-1", cb.CallbackQueryID)
}

func TestRunner_GroupChatSessionsPerSender(t *testing.T) {
	sender := &fakeSender{}
	h := &fakeHandler{}
	r := NewRunner(sender, h, nil, nil)

	const group int64 = -100500
	r.Enqueue(groupTextUpdate(1, group, 11, "from-a"))
	r.Enqueue(groupTextUpdate(2, group, 22, "from-b"))
	r.Wait()

	require.Len(t, h.events, 2)
	sessions := map[int64]string{}
	for _, e := range h.events {
		sessions[e.session] = e.payload
	}
	assert.Equal(t, map[int64]string{11: "from-a", 22: "from-b"}, sessions)

	// 返信はグループチャットへ
	require.Len(t, sender.sent, 2)
	for _, c := range sender.sent {
		assert.Equal(t, group, c.(tgbotapi.MessageConfig).ChatID)
	}
}

func TestRouteOf(t *testing.T) {
	tests := []struct {
		name string
		u    tgbotapi.Update
		want route
		ok   bool
	}{
		{
			name: "private message",
			u:    textUpdate(1, 5, "x"),
			want: route{session: 5, chat: 5},
			ok:   true,
		},
		{
			name: "group message",
			u:    groupTextUpdate(1, -9, 5, "x"),
			want: route{session: 5, chat: -9},
			ok:   true,
		},
		{
			name: "message without sender",
			u:    tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: -9}}},
			want: route{session: -9, chat: -9},
			ok:   true,
		},
		{
			name: "callback in group",
			u: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				From:    &tgbotapi.User{ID: 5},
				Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: -9}},
			}},
			want: route{session: 5, chat: -9},
			ok:   true,
		},
		{
			name: "inline callback without message",
			u:    tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{From: &tgbotapi.User{ID: 5}}},
			want: route{session: 5, chat: 5},
			ok:   true,
		},
		{
			name: "empty update",
			u:    tgbotapi.Update{},
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := routeOf(tt.u)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRunner_RecoversFromPanic(t *testing.T) {
	h := &fakeHandler{panics: true}
	r := NewRunner(&fakeSender{}, h, nil, nil)

	assert.NotPanics(t, func() {
		r.Enqueue(textUpdate(1, 100, "hi"))
		r.Wait()
	})

	// 同じセッションの次のイベントも処理される
	h.panics = false
	r.Enqueue(textUpdate(2, 100, "again"))
	r.Wait()
	assert.Len(t, h.events, 1)
}

func TestRunner_IgnoresUpdatesWithoutChat(t *testing.T) {
	h := &fakeHandler{}
	r := NewRunner(&fakeSender{}, h, nil, nil)

	r.Enqueue(tgbotapi.Update{UpdateID: 1})
	r.Wait()
	assert.Empty(t, h.events)
}

func TestChatReplier_Markup(t *testing.T) {
	sender := &fakeSender{}
	rep := newChatReplier(sender, 42)
	ctx := context.Background()

	kb := bot.Keyboard{
		bot.Row(bot.CallbackButton("A", "a"), bot.URLButton("Pay", "https://pay.example.com")),
	}
	require.NoError(t, rep.SendButtons(ctx, "hello", kb))
	require.NoError(t, rep.SendText(ctx, "plain"))
	require.NoError(t, rep.SendPhoto(ctx, image.Resolved{Name: "a.jpg", Bytes: []byte("x")}, "cap", nil))
	require.NoError(t, rep.SendPhoto(ctx, image.Resolved{URL: "https://cdn.example.com/a.jpg"}, "cap", kb))

	require.Len(t, sender.sent, 4)

	msg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(42), msg.ChatID)
	markup := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "a", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "https://pay.example.com", *markup.InlineKeyboard[0][1].URL)

	plain := sender.sent[1].(tgbotapi.MessageConfig)
	assert.Nil(t, plain.ReplyMarkup)

	photo := sender.sent[2].(tgbotapi.PhotoConfig)
	assert.Equal(t, "cap", photo.Caption)
	assert.Equal(t, tgbotapi.FileBytes{Name: "a.jpg", Bytes: []byte("x")}, photo.File)

	byURL := sender.sent[3].(tgbotapi.PhotoConfig)
	assert.Equal(t, tgbotapi.FileURL("https://cdn.example.com/a.jpg"), byURL.File)
}

func TestSerializer_Wait(t *testing.T) {
	s := newSerializer()
	var mu sync.Mutex
	count := 0
	for i := 0; i < 20; i++ {
		s.Do(int64(i%3), func() {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	s.Wait()
	assert.Equal(t, 20, count)
}

func TestBotLogger_DoesNotPanic(t *testing.T) {
	l := botLogger{l: zap.NewNop()}
	assert.NotPanics(t, func() {
		l.Println("a", 1)
		l.Printf("%s=%d", "b", 2)
	})
}
