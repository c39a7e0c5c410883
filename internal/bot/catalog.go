package bot

import (
	"context"
	"errors"

	"storebot/internal/domain/model"
	"storebot/internal/usecase"

	"go.uber.org/zap"
)

// カテゴリボタンを1行に並べる数
const categoriesPerRow = 4

func (b *Dispatcher) showCategories(ctx context.Context, s *model.Session, r Replier) error {
	cs, err := b.catalog.Categories(ctx)
	if err != nil {
		return b.replyError(ctx, s, err, r)
	}
	if len(cs) == 0 {
		return r.SendText(ctx, msgNoCategories)
	}

	var kb Keyboard
	var row []Button
	for _, c := range cs {
		row = append(row, CallbackButton(c.Name, prefixCategory+itoa(c.ID)))
		if len(row) == categoriesPerRow {
			kb = append(kb, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	return r.SendButtons(ctx, msgCategories, kb)
}

func (b *Dispatcher) openCategory(ctx context.Context, s *model.Session, categoryID int64, r Replier) error {
	s.CategoryID = categoryID
	s.ProductPage = 0
	return b.sendProductPage(ctx, s, r)
}

func (b *Dispatcher) nextProductPage(ctx context.Context, s *model.Session, r Replier) error {
	if s.CategoryID == 0 {
		return r.SendText(ctx, msgPickCategory)
	}
	s.ProductPage++
	return b.sendProductPage(ctx, s, r)
}

func (b *Dispatcher) prevProductPage(ctx context.Context, s *model.Session, r Replier) error {
	if s.CategoryID == 0 {
		return r.SendText(ctx, msgPickCategory)
	}
	if s.ProductPage > 0 {
		s.ProductPage--
	}
	return b.sendProductPage(ctx, s, r)
}

// 4件ずつ。在庫0の商品には追加ボタンを出さない。
func (b *Dispatcher) sendProductPage(ctx context.Context, s *model.Session, r Replier) error {
	page, err := b.catalog.ProductPage(ctx, s.CategoryID, s.ProductPage)
	if err != nil {
		return b.replyError(ctx, s, err, r)
	}
	// 範囲外だったときに寄せたページを覚える
	s.ProductPage = page.Page

	if len(page.Items) == 0 {
		return r.SendText(ctx, msgNoProducts)
	}

	for _, p := range page.Items {
		if err := b.sendProduct(ctx, s, p, r); err != nil {
			return err
		}
	}

	var nav []Button
	if page.HasNext {
		nav = append(nav, CallbackButton(btnNext, tokenNextPage))
	}
	if page.HasPrev {
		nav = append(nav, CallbackButton(btnPrev, tokenPrevPage))
	}
	if len(nav) > 0 {
		return r.SendButtons(ctx, msgProductsNav, Keyboard{nav})
	}
	return nil
}

func (b *Dispatcher) search(ctx context.Context, s *model.Session, term string, r Replier) error {
	items, err := b.catalog.Search(ctx, term)
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			return r.SendText(ctx, msgSearchUsage)
		}
		return b.replyError(ctx, s, err, r)
	}
	if len(items) == 0 {
		return r.SendText(ctx, msgNoResults)
	}
	for _, p := range items {
		if err := b.sendProduct(ctx, s, p, r); err != nil {
			return err
		}
	}
	return nil
}

func (b *Dispatcher) showSearchHint(ctx context.Context, s *model.Session, r Replier) error {
	return r.SendText(ctx, msgSearchHint)
}

func productKeyboard(p model.Product) Keyboard {
	if !p.InStock() {
		return Keyboard{Row(CallbackButton(btnBookmarkOnly, prefixBookmark+itoa(p.ID)))}
	}
	return Keyboard{Row(
		CallbackButton(btnBookmark, prefixBookmark+itoa(p.ID)),
		CallbackButton(btnAddCart, prefixAddCart+itoa(p.ID)),
	)}
}

func (b *Dispatcher) sendProduct(ctx context.Context, s *model.Session, p model.Product, r Replier) error {
	return b.sendWithImage(ctx, s, p.ImagePath, productCaption(p), productKeyboard(p), r)
}

// 画像が無い・送れないときは文字だけにする
func (b *Dispatcher) sendWithImage(ctx context.Context, s *model.Session, ref string, caption string, kb Keyboard, r Replier) error {
	if b.images != nil {
		img, err := b.images.Resolve(ctx, ref)
		if err == nil {
			err = r.SendPhoto(ctx, img, caption, kb)
			if err == nil {
				return nil
			}
			b.logger.Warn("send photo failed", zap.Int64("session_id", s.ID), zap.String("image", ref), zap.Error(err))
		} else {
			b.logger.Debug("image unavailable", zap.Int64("session_id", s.ID), zap.String("image", ref), zap.Error(err))
		}
	}
	text := caption + "\n" + msgNoImage
	if len(kb) == 0 {
		return r.SendText(ctx, text)
	}
	return r.SendButtons(ctx, text, kb)
}

func (b *Dispatcher) addBookmark(ctx context.Context, s *model.Session, productID int64, r Replier) error {
	err := b.bookmarks.Add(ctx, s, productID)
	switch {
	case err == nil:
		return r.SendText(ctx, msgBookmarked)
	case errors.Is(err, usecase.ErrAlreadyBookmarked):
		return r.SendText(ctx, msgAlreadyBookmark)
	}
	return b.replyError(ctx, s, err, r)
}
