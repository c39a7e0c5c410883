package telegram

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"storebot/internal/bot"
	"storebot/internal/infra/dedupe"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// 1イベントの処理上限
const defaultUpdateTimeout = 60 * time.Second

// bot.Dispatcherが満たす
type Handler interface {
	HandleText(ctx context.Context, sessionID int64, text string, r bot.Replier) error
	HandleCallback(ctx context.Context, sessionID int64, token string, r bot.Replier) error
}

// Runnerはアップデートを受け取り、重複を捨て、セッションごとに直列化してHandlerに渡す。
type Runner struct {
	api     Sender
	handler Handler
	dedupe  dedupe.Deduper
	logger  *zap.Logger
	queue   *serializer
	timeout time.Duration
}

// DI
func NewRunner(api Sender, handler Handler, d dedupe.Deduper, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		api:     api,
		handler: handler,
		dedupe:  d,
		logger:  logger,
		queue:   newSerializer(),
		timeout: defaultUpdateTimeout,
	}
}

// 受け付けて非同期で処理する（webhook/pollingの両方から呼ぶ）
func (r *Runner) Enqueue(u tgbotapi.Update) {
	rt, ok := routeOf(u)
	if !ok {
		return
	}

	if r.dedupe != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		first, err := r.dedupe.FirstSeen(ctx, u.UpdateID)
		cancel()
		if err != nil {
			// 判定できないときは処理する
			r.logger.Warn("update dedupe failed", zap.Int("update_id", u.UpdateID), zap.Error(err))
		} else if !first {
			r.logger.Debug("duplicate update dropped", zap.Int("update_id", u.UpdateID))
			return
		}
	}

	r.queue.Do(rt.session, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.process(ctx, rt, u)
	})
}

// 1件を同期で処理する。panicしても落とさない。
func (r *Runner) process(ctx context.Context, rt route, u tgbotapi.Update) {
	sessionID := rt.session
	log := r.logger.With(
		zap.Int("update_id", u.UpdateID),
		zap.Int64("session_id", sessionID),
		zap.Int64("chat_id", rt.chat),
	)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic while handling update",
				zap.String("panic", fmt.Sprint(rec)),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	replier := newChatReplier(r.api, rt.chat)

	var err error
	switch {
	case u.CallbackQuery != nil:
		// ボタンの読み込み表示を止める
		if _, aerr := r.api.Request(tgbotapi.NewCallback(u.CallbackQuery.ID, "")); aerr != nil {
			log.Debug("answer callback failed", zap.Error(aerr))
		}
		err = r.handler.HandleCallback(ctx, sessionID, u.CallbackQuery.Data, replier)
	case u.Message != nil:
		err = r.handler.HandleText(ctx, sessionID, u.Message.Text, replier)
	}

	if err != nil {
		log.Error("handle update failed", zap.Error(err))
	}
}

// ロングポーリング。ctxが終わるまで戻らない。
func (r *Runner) RunPolling(ctx context.Context, api *tgbotapi.BotAPI) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	cfg.AllowedUpdates = []string{"message", "callback_query"}

	updates := api.GetUpdatesChan(cfg)
	r.logger.Info("telegram polling started", zap.String("bot", api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			r.logger.Info("telegram polling stopped")
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			r.Enqueue(u)
		}
	}
}

// 受け付け済みの処理が終わるまで待つ
func (r *Runner) Wait() {
	r.queue.Wait()
}

// session はセッションの鍵（送信者）、chat は返信先。
// グループでは同じチャットに複数の送信者がいる。
type route struct {
	session int64
	chat    int64
}

// 送信者が分からない投稿（チャンネル等）はチャットIDで代用する
func routeOf(u tgbotapi.Update) (route, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		var rt route
		if cq.Message != nil && cq.Message.Chat != nil {
			rt.chat = cq.Message.Chat.ID
		}
		if cq.From != nil {
			rt.session = cq.From.ID
		}
		if rt.chat == 0 {
			rt.chat = rt.session
		}
		if rt.session == 0 {
			rt.session = rt.chat
		}
		return rt, rt.session != 0
	case u.Message != nil:
		if u.Message.Chat == nil {
			return route{}, false
		}
		rt := route{session: u.Message.Chat.ID, chat: u.Message.Chat.ID}
		if u.Message.From != nil {
			rt.session = u.Message.From.ID
		}
		return rt, true
	}
	return route{}, false
}
