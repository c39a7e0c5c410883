package repository

import (
	"context"
	"time"

	"storebot/internal/domain/model"
)

// 運用確認用の絞り込み
type ReservationFilter struct {
	UserID    *int64
	ProductID *int64
	Limit     int
}

// 予約（カートのミラー）の保存
type ReservationRepository interface {
	// 無ければinsert、あれば quantity と reserved_at を更新（1文で行う）
	Upsert(ctx context.Context, userID int64, productID int64, qty int64, at time.Time) error
	Delete(ctx context.Context, userID int64, productID int64) error
	// 指定商品の予約だけ消す。購入済みの分（支払い待ち）は残る。
	DeleteByUserAndProducts(ctx context.Context, userID int64, productIDs []int64) error
	List(ctx context.Context, f ReservationFilter) ([]model.Reservation, error)
}
