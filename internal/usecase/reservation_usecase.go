package usecase

import (
	"context"
	"fmt"

	"storebot/internal/domain/model"
	repo "storebot/internal/repository"
)

// 運用向けの予約一覧の入力
type ListReservationsInput struct {
	UserID    *int64
	ProductID *int64
	Limit     int
}

// 予約の確認（運用API）
type ReservationUsecase struct {
	reservations repo.ReservationRepository
}

// DI
func NewReservationUsecase(reservations repo.ReservationRepository) *ReservationUsecase {
	return &ReservationUsecase{reservations: reservations}
}

func (u *ReservationUsecase) List(ctx context.Context, in ListReservationsInput) ([]model.Reservation, error) {
	if in.Limit < 0 || in.Limit > 500 {
		return nil, ErrValidation
	}
	if in.UserID != nil && *in.UserID <= 0 {
		return nil, ErrValidation
	}
	if in.ProductID != nil && *in.ProductID <= 0 {
		return nil, ErrValidation
	}

	rs, err := u.reservations.List(ctx, repo.ReservationFilter{
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Limit:     in.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return rs, nil
}
