package repository

import (
	"context"

	"storebot/internal/domain/model"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
}
