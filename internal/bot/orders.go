package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storebot/internal/domain/model"
	"storebot/internal/usecase"
)

func (b *Dispatcher) showFirstOrders(ctx context.Context, s *model.Session, r Replier) error {
	s.OrdersPage = 0
	return b.sendOrdersPage(ctx, s, r)
}

func (b *Dispatcher) nextOrdersPage(ctx context.Context, s *model.Session, r Replier) error {
	s.OrdersPage++
	return b.sendOrdersPage(ctx, s, r)
}

func (b *Dispatcher) prevOrdersPage(ctx context.Context, s *model.Session, r Replier) error {
	if s.OrdersPage > 0 {
		s.OrdersPage--
	}
	return b.sendOrdersPage(ctx, s, r)
}

func (b *Dispatcher) sendOrdersPage(ctx context.Context, s *model.Session, r Replier) error {
	page, err := b.orders.ListOrders(ctx, s, s.OrdersPage)
	if err != nil {
		return b.replyError(ctx, s, err, r)
	}
	if len(page.Orders) == 0 {
		if page.Page > 0 {
			s.OrdersPage = 0
		}
		return r.SendText(ctx, msgNoOrders)
	}

	for _, o := range page.Orders {
		lines := make([]string, 0, len(o.Lines))
		for _, l := range o.Lines {
			lines = append(lines, orderLineText(l))
		}
		text := orderHeader(o.Order) + "\n" + strings.Join(lines, "\n") +
			fmt.Sprintf("\n💰 مجموع کل: %s تومان", formatPrice(o.Total))
		kb := Keyboard{Row(CallbackButton(btnOrderImages, prefixOrderImgs+itoa(o.Order.ID)))}
		if err := r.SendButtons(ctx, text, kb); err != nil {
			return err
		}
	}

	var nav []Button
	if page.HasNext {
		nav = append(nav, CallbackButton(btnNext, tokenOrdersNext))
	}
	if page.HasPrev {
		nav = append(nav, CallbackButton(btnPrev, tokenOrdersPrev))
	}
	if len(nav) > 0 {
		return r.SendButtons(ctx, msgOrdersNav, Keyboard{nav})
	}
	return nil
}

// 注文の商品画像を送り直す（所有者のみ）
func (b *Dispatcher) sendOrderImages(ctx context.Context, s *model.Session, orderID int64, r Replier) error {
	lines, err := b.orders.OrderLines(ctx, s, orderID)
	if err != nil {
		if errors.Is(err, usecase.ErrForbidden) || errors.Is(err, usecase.ErrNotFound) {
			return r.SendText(ctx, msgOrderImagesNone)
		}
		return b.replyError(ctx, s, err, r)
	}
	if len(lines) == 0 {
		return r.SendText(ctx, msgOrderImagesNone)
	}
	for _, l := range lines {
		if err := b.sendWithImage(ctx, s, l.ImagePath, l.ProductName, nil, r); err != nil {
			return err
		}
	}
	return nil
}
