package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"storebot/internal/domain/model"
	"storebot/internal/usecase"

	"go.uber.org/zap"
)

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func (b *Dispatcher) addToCart(ctx context.Context, s *model.Session, productID int64, r Replier) error {
	qty, err := b.cart.Add(ctx, s, productID)
	if err != nil {
		if le, ok := usecase.AsLimitExceeded(err); ok {
			return r.SendText(ctx, fmt.Sprintf(msgLimitExceeded, le.Limit))
		}
		return b.replyError(ctx, s, err, r)
	}
	return r.SendText(ctx, fmt.Sprintf(msgAddedToCart, qty))
}

func (b *Dispatcher) removeFromCart(ctx context.Context, s *model.Session, productID int64, r Replier) error {
	existed, err := b.cart.Remove(ctx, s, productID)
	if err != nil {
		return b.replyError(ctx, s, err, r)
	}
	if !existed {
		return r.SendText(ctx, msgNotInCart)
	}
	if err := r.SendText(ctx, msgRemoved); err != nil {
		return err
	}
	return b.showCart(ctx, s, r)
}

func (b *Dispatcher) clearCart(ctx context.Context, s *model.Session, r Replier) error {
	if err := b.cart.Clear(ctx, s); err != nil {
		return b.replyError(ctx, s, err, r)
	}
	return r.SendText(ctx, msgCartCleared)
}

// 明細ごとに写真と削除ボタン、最後に合計と支払いボタン
func (b *Dispatcher) showCart(ctx context.Context, s *model.Session, r Replier) error {
	if s.Cart.IsEmpty() {
		return r.SendText(ctx, msgCartEmpty)
	}

	sum, err := b.cart.Total(ctx, s)
	if err != nil {
		return b.replyError(ctx, s, err, r)
	}

	for _, l := range sum.Lines {
		caption := cartLineCaption(l.Product.Name, l.Quantity, l.UnitFinalPrice, l.LineTotal)
		kb := Keyboard{Row(CallbackButton(btnRemove, prefixRemoveCart+itoa(l.Product.ID)))}
		if err := b.sendWithImage(ctx, s, l.Product.ImagePath, caption, kb, r); err != nil {
			return err
		}
	}

	if len(sum.Missing) > 0 {
		b.logger.Info("cart has products missing from catalog",
			zap.Int64("session_id", s.ID),
			zap.Int64s("product_ids", sum.Missing),
		)
		if err := r.SendText(ctx, fmt.Sprintf(msgOrphanedInCart, len(sum.Missing))); err != nil {
			return err
		}
	}
	if sum.IsEmpty() {
		return r.SendText(ctx, msgCartEmpty)
	}

	total := fmt.Sprintf(msgCartTotal, formatPrice(sum.GrandTotal))
	if !s.Authenticated {
		total += "\n" + msgAnonymousCart
	}
	kb := Keyboard{
		Row(CallbackButton(btnPay, tokenPayCart)),
		Row(CallbackButton(btnClearCart, tokenClearCart)),
	}
	return r.SendButtons(ctx, total, kb)
}

func (b *Dispatcher) payCart(ctx context.Context, s *model.Session, r Replier) error {
	url, err := b.checkout.Checkout(ctx, s)
	if err != nil {
		if ge, ok := usecase.AsGatewayError(err); ok {
			b.logger.Warn("checkout failed at gateway",
				zap.Int64("session_id", s.ID),
				zap.Int64("user_id", s.UserID),
				zap.Error(err),
			)
			text := msgGatewayFailed
			if ge.Detail != "" {
				text += "\n" + ge.Detail
			}
			return r.SendButtons(ctx, text, Keyboard{Row(CallbackButton(btnRetryPay, tokenPayCart))})
		}
		if errors.Is(err, usecase.ErrEmptyCart) {
			return r.SendText(ctx, msgCartEmpty)
		}
		return b.replyError(ctx, s, err, r)
	}

	b.logger.Info("payment link created", zap.Int64("session_id", s.ID), zap.Int64("user_id", s.UserID))
	return r.SendButtons(ctx, msgPayLink, Keyboard{Row(URLButton(btnPayPage, url))})
}
