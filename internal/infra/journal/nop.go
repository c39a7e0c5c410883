package journal

import (
	"context"

	"storebot/internal/usecase"
)

// MONGO_URI未設定のとき
type Nop struct{}

func (Nop) Record(ctx context.Context, rec usecase.CheckoutRecord) error { return nil }

func (Nop) Recent(ctx context.Context, userID int64, limit int64) ([]CheckoutEntry, error) {
	return nil, nil
}
