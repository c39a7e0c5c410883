package usecase

import (
	"context"
	"errors"
	"fmt"

	"storebot/internal/domain/model"
	repo "storebot/internal/repository"

	"go.uber.org/zap"
)

// カートの1行（価格は毎回読み直す）
type CartLine struct {
	Product        model.Product
	Quantity       int64
	UnitFinalPrice int64
	LineTotal      int64
}

type CartSummary struct {
	Lines      []CartLine
	GrandTotal int64
	// カタログから消えた商品（合計から外す）
	Missing []int64
}

func (s CartSummary) IsEmpty() bool {
	return len(s.Lines) == 0
}

type CartUsecase struct {
	products     repo.ProductRepository
	reservations repo.ReservationRepository
	clock        Clock
	logger       *zap.Logger
}

// DI
func NewCartUsecase(
	products repo.ProductRepository,
	reservations repo.ReservationRepository,
	clock Clock,
	logger *zap.Logger,
) *CartUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartUsecase{
		products:     products,
		reservations: reservations,
		clock:        clock,
		logger:       logger,
	}
}

// 1個追加して新しい数量を返す。
// 上限は追加の瞬間の商品行で判定する。ログイン中なら予約もupsertする。
func (u *CartUsecase) Add(ctx context.Context, s *model.Session, productID int64) (int64, error) {
	if productID <= 0 {
		return 0, ErrValidation
	}

	//商品取得（上限と在庫は常に最新）
	p, err := u.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	current := s.Cart.Quantity(productID)
	next := current + 1

	//上限チェック
	if p.PurchaseLimit != nil && next > *p.PurchaseLimit {
		return current, &LimitExceededError{Limit: *p.PurchaseLimit}
	}

	s.Cart.Set(productID, next)

	//匿名セッションは予約を書かない
	if !s.Authenticated {
		return next, nil
	}

	if err := u.reservations.Upsert(ctx, s.UserID, productID, next, u.clock.Now()); err != nil {
		// カートを戻して予約とずれないようにする
		s.Cart.Set(productID, current)
		u.logger.Warn("reservation upsert failed",
			zap.Int64("session_id", s.ID),
			zap.Int64("user_id", s.UserID),
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
		return current, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return next, nil
}

// 明細ごと削除。存在したかを返す（2回目はfalse、エラーではない）。
func (u *CartUsecase) Remove(ctx context.Context, s *model.Session, productID int64) (bool, error) {
	qty := s.Cart.Quantity(productID)
	if !s.Cart.Remove(productID) {
		return false, nil
	}

	if !s.Authenticated {
		return true, nil
	}

	if err := u.reservations.Delete(ctx, s.UserID, productID); err != nil {
		s.Cart.Set(productID, qty)
		u.logger.Warn("reservation delete failed",
			zap.Int64("session_id", s.ID),
			zap.Int64("user_id", s.UserID),
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return true, nil
}

// 全明細を捨てる。ログイン中ならカートにある商品の予約も消す。
// 決済済みで支払い待ちの予約には触れない。
func (u *CartUsecase) Clear(ctx context.Context, s *model.Session) error {
	if s.Authenticated && !s.Cart.IsEmpty() {
		if err := u.reservations.DeleteByUserAndProducts(ctx, s.UserID, s.Cart.ProductIDs()); err != nil {
			u.logger.Warn("reservation clear failed",
				zap.Int64("session_id", s.ID),
				zap.Int64("user_id", s.UserID),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	s.Cart.Reset()
	return nil
}

// 現在の価格・割引で合計する。見つからない商品は飛ばす（カートからは消さない）。
func (u *CartUsecase) Total(ctx context.Context, s *model.Session) (CartSummary, error) {
	var sum CartSummary

	for _, e := range s.Cart.Entries() {
		p, err := u.products.FindByID(ctx, e.ProductID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				sum.Missing = append(sum.Missing, e.ProductID)
				continue
			}
			return CartSummary{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		unit := p.FinalPrice()
		line := CartLine{
			Product:        p,
			Quantity:       e.Quantity,
			UnitFinalPrice: unit,
			LineTotal:      unit * e.Quantity,
		}
		sum.Lines = append(sum.Lines, line)
		sum.GrandTotal += line.LineTotal
	}

	return sum, nil
}
