package usecase

import (
	"context"
	"errors"
	"fmt"

	"storebot/internal/domain/model"
	repo "storebot/internal/repository"
)

type BookmarkUsecase struct {
	bookmarks repo.BookmarkRepository
	products  repo.ProductRepository
}

// DI
func NewBookmarkUsecase(bookmarks repo.BookmarkRepository, products repo.ProductRepository) *BookmarkUsecase {
	return &BookmarkUsecase{bookmarks: bookmarks, products: products}
}

// ログイン必須。登録済みならErrAlreadyBookmarked。
func (u *BookmarkUsecase) Add(ctx context.Context, s *model.Session, productID int64) error {
	if !s.Authenticated {
		return ErrNotAuthenticated
	}

	if _, err := u.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	exists, err := u.bookmarks.Exists(ctx, s.UserID, productID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if exists {
		return ErrAlreadyBookmarked
	}

	if err := u.bookmarks.Create(ctx, s.UserID, productID); err != nil {
		if errors.Is(err, repo.ErrDuplicateKey) {
			return ErrAlreadyBookmarked
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
