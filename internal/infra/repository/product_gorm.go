package repository

import (
	"context"
	"errors"
	"strings"

	"storebot/internal/domain/model"
	repo "storebot/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// カテゴリ内の商品をid順でページング
func (r *ProductGormRepository) ListByCategory(ctx context.Context, q repo.ProductPageQuery) ([]model.Product, error) {
	var products []model.Product

	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 {
		q.Limit = 4
	}

	err := r.db.WithContext(ctx).
		Where("category_id = ?", q.CategoryID).
		Order("id asc").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// カテゴリ内の件数
func (r *ProductGormRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// name / brand / description の部分一致（大小文字は区別しない）
func (r *ProductGormRepository) Search(ctx context.Context, term string, limit int) ([]model.Product, error) {
	var products []model.Product

	term = strings.TrimSpace(term)
	if term == "" {
		return []model.Product{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	like := "%" + strings.ToLower(term) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?", like, like, like).
		Order("id asc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}
