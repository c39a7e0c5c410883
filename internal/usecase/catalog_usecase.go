package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storebot/internal/domain/model"
	repo "storebot/internal/repository"
)

const (
	// カテゴリ一覧の1ページ
	ProductsPerPage = 4
	// 検索結果の件数
	SearchResultLimit = 5
	maxSearchTermLen  = 100
)

// カテゴリ内の1ページ分
type ProductPage struct {
	CategoryID int64
	Page       int
	Items      []model.Product
	Total      int64
	HasPrev    bool
	HasNext    bool
}

type CatalogUsecase struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
}

// DI
func NewCatalogUsecase(categories repo.CategoryRepository, products repo.ProductRepository) *CatalogUsecase {
	return &CatalogUsecase{categories: categories, products: products}
}

func (u *CatalogUsecase) Categories(ctx context.Context) ([]model.Category, error) {
	cs, err := u.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return cs, nil
}

// pageは0始まり。範囲外は端に寄せる。
func (u *CatalogUsecase) ProductPage(ctx context.Context, categoryID int64, page int) (ProductPage, error) {
	if categoryID <= 0 {
		return ProductPage{}, ErrValidation
	}

	total, err := u.products.CountByCategory(ctx, categoryID)
	if err != nil {
		return ProductPage{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	lastPage := 0
	if total > 0 {
		lastPage = int((total - 1) / ProductsPerPage)
	}
	if page > lastPage {
		page = lastPage
	}
	if page < 0 {
		page = 0
	}

	items, err := u.products.ListByCategory(ctx, repo.ProductPageQuery{
		CategoryID: categoryID,
		Offset:     page * ProductsPerPage,
		Limit:      ProductsPerPage,
	})
	if err != nil {
		return ProductPage{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return ProductPage{
		CategoryID: categoryID,
		Page:       page,
		Items:      items,
		Total:      total,
		HasPrev:    page > 0,
		HasNext:    page < lastPage,
	}, nil
}

// name / brand / description の部分一致
func (u *CatalogUsecase) Search(ctx context.Context, term string) ([]model.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" || len(term) > maxSearchTermLen {
		return nil, ErrValidation
	}

	items, err := u.products.Search(ctx, term, SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return items, nil
}

func (u *CatalogUsecase) Product(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return p, nil
}
