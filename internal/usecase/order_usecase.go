package usecase

import (
	"context"
	"errors"
	"fmt"

	"storebot/internal/domain/model"
	repo "storebot/internal/repository"
)

// 注文履歴の1ページ
const OrdersPerPage = 4

// 注文1件と明細
type OrderView struct {
	Order model.Order
	Lines []model.OrderLine
	Total int64
}

type OrderPage struct {
	Page    int
	Orders  []OrderView
	Total   int64
	HasPrev bool
	HasNext bool
}

type OrderUsecase struct {
	orders repo.OrderRepository
}

// DI
func NewOrderUsecase(orders repo.OrderRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders}
}

// 新しい順に4件ずつ。pageは0始まり。
func (u *OrderUsecase) ListOrders(ctx context.Context, s *model.Session, page int) (OrderPage, error) {
	if !s.Authenticated {
		return OrderPage{}, ErrNotAuthenticated
	}
	if page < 0 {
		page = 0
	}

	orders, total, err := u.orders.ListByUserID(ctx, s.UserID, page*OrdersPerPage, OrdersPerPage)
	if err != nil {
		return OrderPage{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	out := OrderPage{
		Page:    page,
		Total:   total,
		Orders:  make([]OrderView, 0, len(orders)),
		HasPrev: page > 0,
		HasNext: int64((page+1)*OrdersPerPage) < total,
	}

	for _, o := range orders {
		lines, err := u.orders.ListLines(ctx, o.ID)
		if err != nil {
			return OrderPage{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		out.Orders = append(out.Orders, toOrderView(o, lines))
	}
	return out, nil
}

// 画像再送用の明細。他人の注文はErrForbidden。
func (u *OrderUsecase) OrderLines(ctx context.Context, s *model.Session, orderID int64) ([]model.OrderLine, error) {
	if !s.Authenticated {
		return nil, ErrNotAuthenticated
	}
	if orderID <= 0 {
		return nil, ErrValidation
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	//所有チェック
	if o.UserID != s.UserID {
		return nil, ErrForbidden
	}

	lines, err := u.orders.ListLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return lines, nil
}

func toOrderView(o model.Order, lines []model.OrderLine) OrderView {
	v := OrderView{Order: o, Lines: lines}
	for _, l := range lines {
		v.Total += l.LineTotal()
	}
	return v
}
