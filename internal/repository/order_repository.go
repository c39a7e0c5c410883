package repository

import (
	"context"

	"storebot/internal/domain/model"
)

// 注文は読むだけ
type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 新しい順。totalも返す。
	ListByUserID(ctx context.Context, userID int64, offset int, limit int) ([]model.Order, int64, error)
	// 明細（商品名・画像付き）
	ListLines(ctx context.Context, orderID int64) ([]model.OrderLine, error)
}
