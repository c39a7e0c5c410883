package usecase_test

import (
	"context"
	"sync"
	"time"

	"storebot/internal/domain/model"
	repo "storebot/internal/repository"
	"storebot/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListByCategory(ctx context.Context, q repo.ProductPageQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) Search(ctx context.Context, term string, limit int) ([]model.Product, error) {
	args := m.Called(ctx, term, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

type ReservationRepoMock struct{ mock.Mock }

func (m *ReservationRepoMock) Upsert(ctx context.Context, userID int64, productID int64, qty int64, at time.Time) error {
	args := m.Called(ctx, userID, productID, qty, at)
	return args.Error(0)
}

func (m *ReservationRepoMock) Delete(ctx context.Context, userID int64, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *ReservationRepoMock) DeleteByUserAndProducts(ctx context.Context, userID int64, productIDs []int64) error {
	args := m.Called(ctx, userID, productIDs)
	return args.Error(0)
}

func (m *ReservationRepoMock) List(ctx context.Context, f repo.ReservationFilter) ([]model.Reservation, error) {
	args := m.Called(ctx, f)
	rs, _ := args.Get(0).([]model.Reservation)
	return rs, args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, offset int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListLines(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]model.OrderLine)
	return lines, args.Error(1)
}

type BookmarkRepoMock struct{ mock.Mock }

func (m *BookmarkRepoMock) Exists(ctx context.Context, userID int64, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *BookmarkRepoMock) Create(ctx context.Context, userID int64, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

// =====================
// In-memory user repository
// =====================

// 登録→ログインを通しで確かめるためのメモリ実装
type memoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*model.User
	err    error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]*model.User{}}
}

func (r *memoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[user.Email]; ok {
		return repo.ErrDuplicateKey
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.ID == userID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// =====================
// Collaborators
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreatePayment(ctx context.Context, req usecase.PaymentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type JournalMock struct{ mock.Mock }

func (m *JournalMock) Record(ctx context.Context, rec usecase.CheckoutRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func int64Ptr(v int64) *int64 { return &v }

func authedSession(id int64, userID int64) *model.Session {
	s := model.NewSession(id, time.Unix(0, 0))
	s.SignIn(&model.User{ID: userID, Email: "ali@example.com"})
	return s
}
