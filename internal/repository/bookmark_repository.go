package repository

import "context"

type BookmarkRepository interface {
	Exists(ctx context.Context, userID int64, productID int64) (bool, error)
	Create(ctx context.Context, userID int64, productID int64) error
}
