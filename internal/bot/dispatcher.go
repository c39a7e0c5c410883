package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"storebot/internal/domain/model"
	"storebot/internal/infra/image"
	repo "storebot/internal/repository"
	"storebot/internal/usecase"

	"go.uber.org/zap"
)

// コールバックトークン
const (
	tokenMenuLogin      = "menu_login"
	tokenMenuCategories = "menu_categories"
	tokenMenuSearch     = "menu_search"
	tokenMenuCart       = "menu_cart"
	tokenMenuOrders     = "menu_orders"
	tokenLogin          = "login"
	tokenRegister       = "register"
	tokenNextPage       = "next_page"
	tokenPrevPage       = "prev_page"
	tokenClearCart      = "clear_cart"
	tokenPayCart        = "pay_cart"
	tokenOrdersNext     = "orders_next_page"
	tokenOrdersPrev     = "orders_prev_page"

	prefixCategory   = "categoryid_"
	prefixBookmark   = "bookmark_"
	prefixAddCart    = "addcart_"
	prefixRemoveCart = "remove_cart_"
	prefixOrderImgs  = "orderimgs_"
)

// 画像の解決
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) (image.Resolved, error)
}

type Deps struct {
	Sessions     repo.SessionRepository
	Conversation *usecase.ConversationUsecase
	Cart         *usecase.CartUsecase
	Checkout     *usecase.CheckoutUsecase
	Catalog      *usecase.CatalogUsecase
	Orders       *usecase.OrderUsecase
	Bookmarks    *usecase.BookmarkUsecase
	Images       ImageResolver
	Logger       *zap.Logger
}

// Dispatcherは受信イベントをusecaseに振り分け、Replierへ返信する。
// 同じセッションのイベントは呼び出し側で直列化されている前提。
type Dispatcher struct {
	sessions     repo.SessionRepository
	conversation *usecase.ConversationUsecase
	cart         *usecase.CartUsecase
	checkout     *usecase.CheckoutUsecase
	catalog      *usecase.CatalogUsecase
	orders       *usecase.OrderUsecase
	bookmarks    *usecase.BookmarkUsecase
	images       ImageResolver
	logger       *zap.Logger

	exact  map[string]actionFunc
	prefix []prefixRoute
}

type actionFunc func(ctx context.Context, s *model.Session, r Replier) error

type idActionFunc func(ctx context.Context, s *model.Session, id int64, r Replier) error

type prefixRoute struct {
	prefix string
	fn     idActionFunc
}

// DI
func NewDispatcher(d Deps) *Dispatcher {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Dispatcher{
		sessions:     d.Sessions,
		conversation: d.Conversation,
		cart:         d.Cart,
		checkout:     d.Checkout,
		catalog:      d.Catalog,
		orders:       d.Orders,
		bookmarks:    d.Bookmarks,
		images:       d.Images,
		logger:       logger,
	}

	b.exact = map[string]actionFunc{
		tokenMenuLogin:      b.showLoginMenu,
		tokenMenuCategories: b.showCategories,
		tokenMenuSearch:     b.showSearchHint,
		tokenMenuCart:       b.showCart,
		tokenMenuOrders:     b.showFirstOrders,
		tokenLogin:          b.startLogin,
		tokenRegister:       b.startRegister,
		tokenNextPage:       b.nextProductPage,
		tokenPrevPage:       b.prevProductPage,
		tokenClearCart:      b.clearCart,
		tokenPayCart:        b.payCart,
		tokenOrdersNext:     b.nextOrdersPage,
		tokenOrdersPrev:     b.prevOrdersPage,
	}
	// 長いprefixを先に
	b.prefix = []prefixRoute{
		{prefixRemoveCart, b.removeFromCart},
		{prefixCategory, b.openCategory},
		{prefixBookmark, b.addBookmark},
		{prefixAddCart, b.addToCart},
		{prefixOrderImgs, b.sendOrderImages},
	}
	return b
}

// テキストメッセージ（コマンド含む）
func (b *Dispatcher) HandleText(ctx context.Context, sessionID int64, text string, r Replier) error {
	s, err := b.sessions.Acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer b.sessions.Release(ctx, sessionID)

	if cmd, args, ok := parseCommand(text); ok && (!s.InFlow() || flowCommands[cmd]) {
		return b.handleCommand(ctx, s, cmd, args, r)
	}

	out, err := b.conversation.Advance(ctx, s, text)
	if !out.Consumed && err == nil {
		return r.SendText(ctx, msgUseStart)
	}
	return b.replyConversation(ctx, s, out, err, r)
}

// ボタン押下。知らないトークンは無視する。
func (b *Dispatcher) HandleCallback(ctx context.Context, sessionID int64, token string, r Replier) error {
	s, err := b.sessions.Acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer b.sessions.Release(ctx, sessionID)

	if fn, ok := b.exact[token]; ok {
		return fn(ctx, s, r)
	}
	for _, route := range b.prefix {
		if !strings.HasPrefix(token, route.prefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(token, route.prefix), 10, 64)
		if err != nil || id <= 0 {
			b.logger.Debug("malformed callback token", zap.Int64("session_id", sessionID), zap.String("token", token))
			return nil
		}
		return route.fn(ctx, s, id, r)
	}

	b.logger.Debug("ignored callback token", zap.Int64("session_id", sessionID), zap.String("token", token))
	return nil
}

func (b *Dispatcher) handleCommand(ctx context.Context, s *model.Session, cmd string, args string, r Replier) error {
	switch cmd {
	case "start":
		// 入力途中のフローは捨ててメニューへ戻る
		b.conversation.Cancel(s)
		return b.showStartMenu(ctx, s, r)
	case "help":
		return r.SendText(ctx, msgHelp)
	case "login":
		return b.showLoginMenu(ctx, s, r)
	case "register":
		return b.startRegister(ctx, s, r)
	case "logout":
		return b.logout(ctx, s, r)
	case "cancel":
		if b.conversation.Cancel(s) {
			return r.SendText(ctx, msgCancelled)
		}
		return r.SendText(ctx, msgNothingToCancel)
	case "categories":
		return b.showCategories(ctx, s, r)
	case "search":
		return b.search(ctx, s, args, r)
	case "cart":
		return b.showCart(ctx, s, r)
	case "orders":
		return b.showFirstOrders(ctx, s, r)
	}
	return r.SendText(ctx, msgUnknownCommand)
}

// フロー中でもコマンドとして扱うもの。それ以外の "/..." は入力値として渡す
// （"/" で始まるパスワード等）。
var flowCommands = map[string]bool{
	"cancel": true,
	"start":  true,
}

// "/search@MyBot foo bar" -> ("search", "foo bar")
func parseCommand(text string) (string, string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") || len(text) < 2 {
		return "", "", false
	}
	head, args, _ := strings.Cut(text[1:], " ")
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(args), true
}

// usecaseのエラーをユーザー向けの文言にする。内部の詳細は出さない。
func (b *Dispatcher) replyError(ctx context.Context, s *model.Session, err error, r Replier) error {
	switch {
	case errors.Is(err, usecase.ErrNotAuthenticated):
		return r.SendText(ctx, msgLoginRequired)
	case errors.Is(err, usecase.ErrNotFound):
		return r.SendText(ctx, msgProductNotFound)
	case errors.Is(err, usecase.ErrPersistence):
		b.logger.Error("persistence failure", zap.Int64("session_id", s.ID), zap.Error(err))
		return r.SendText(ctx, msgPersistence)
	}
	b.logger.Error("unhandled usecase error", zap.Int64("session_id", s.ID), zap.Error(err))
	return r.SendText(ctx, msgGenericError)
}
