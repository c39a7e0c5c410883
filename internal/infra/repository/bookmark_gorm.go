package repository

import (
	"context"
	"errors"

	"storebot/internal/domain/model"
	repo "storebot/internal/repository"

	"gorm.io/gorm"
)

type BookmarkGormRepository struct {
	db *gorm.DB
}

func NewBookmarkGormRepository(db *gorm.DB) *BookmarkGormRepository {
	return &BookmarkGormRepository{db: db}
}

func (r *BookmarkGormRepository) Exists(ctx context.Context, userID int64, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookmarkGormRepository) Create(ctx context.Context, userID int64, productID int64) error {
	err := r.db.WithContext(ctx).Create(&model.Bookmark{UserID: userID, ProductID: productID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicateKey
	}
	return err
}
