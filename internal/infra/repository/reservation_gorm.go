package repository

import (
	"context"
	"time"

	"storebot/internal/domain/model"
	repo "storebot/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

// DI
func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// (user_id, product_id) で1行。ON CONFLICT / ON DUPLICATE KEY の1文で書く。
func (r *ReservationGormRepository) Upsert(ctx context.Context, userID int64, productID int64, qty int64, at time.Time) error {
	row := model.Reservation{
		UserID:     userID,
		ProductID:  productID,
		Quantity:   qty,
		ReservedAt: at,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "reserved_at"}),
		}).
		Create(&row).Error
}

// 明細1件分の予約を消す（無くてもエラーにしない）
func (r *ReservationGormRepository) Delete(ctx context.Context, userID int64, productID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.Reservation{}).Error
}

func (r *ReservationGormRepository) DeleteByUserAndProducts(ctx context.Context, userID int64, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Delete(&model.Reservation{}).Error
}

// 運用確認用の一覧（新しい順）
func (r *ReservationGormRepository) List(ctx context.Context, f repo.ReservationFilter) ([]model.Reservation, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}

	q := r.db.WithContext(ctx).Model(&model.Reservation{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}

	var items []model.Reservation
	if err := q.Order("reserved_at desc").Order("id desc").Limit(f.Limit).Find(&items).Error; err != nil {
		return []model.Reservation{}, err
	}
	return items, nil
}
