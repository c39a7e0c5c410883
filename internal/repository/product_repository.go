package repository

import (
	"context"
	"errors"

	"storebot/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カテゴリ内の商品ページ
type ProductPageQuery struct {
	CategoryID int64
	Offset     int
	Limit      int
}

// 商品の読み取りだけを約束（カタログ更新は外部）。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
	ListByCategory(ctx context.Context, q ProductPageQuery) ([]model.Product, error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	// name / brand / description の部分一致
	Search(ctx context.Context, term string, limit int) ([]model.Product, error)
}
