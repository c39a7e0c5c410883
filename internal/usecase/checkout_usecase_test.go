package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storebot/internal/domain/model"
	repo "storebot/internal/repository"
	"storebot/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCheckout(products *ProductRepoMock, gw *GatewayMock, journal usecase.CheckoutJournal) *usecase.CheckoutUsecase {
	cart := newCart(products, new(ReservationRepoMock))
	return usecase.NewCheckoutUsecase(cart, gw, journal, fixedClock{t: cartNow}, nil)
}

func TestCheckout_Success_PayloadAndCartCleared(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Price: 1000, Discount: 10}, nil)
	products.On("FindByID", mock.Anything, int64(2)).Return(model.Product{ID: 2, Price: 2500, Discount: 0}, nil)

	want := usecase.PaymentRequest{
		UserID:   10,
		Subtotal: 900*2 + 2500,
		Products: []usecase.PaymentProduct{
			{ProductID: 1, Price: 1000, Discount: 10, Quantity: 2},
			{ProductID: 2, Price: 2500, Discount: 0, Quantity: 1},
		},
	}

	gw := new(GatewayMock)
	gw.On("CreatePayment", mock.Anything, want).Return("https://pay.example.com/abc", nil).Once()

	journal := new(JournalMock)
	journal.On("Record", mock.Anything, mock.MatchedBy(func(rec usecase.CheckoutRecord) bool {
		return rec.PaymentURL == "https://pay.example.com/abc" && rec.Err == "" && rec.UserID == 10
	})).Return(nil).Once()

	u := newCheckout(products, gw, journal)
	s := authedSession(1, 10)
	s.Cart.Set(1, 2)
	s.Cart.Set(2, 1)

	url, err := u.Checkout(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/abc", url)
	assert.True(t, s.Cart.IsEmpty())

	gw.AssertExpectations(t)
	journal.AssertExpectations(t)
}

func TestCheckout_EmptyCart_GatewayNotCalled(t *testing.T) {
	gw := new(GatewayMock)
	u := newCheckout(new(ProductRepoMock), gw, nil)

	_, err := u.Checkout(context.Background(), authedSession(1, 10))
	assert.ErrorIs(t, err, usecase.ErrEmptyCart)
	gw.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestCheckout_NotAuthenticated(t *testing.T) {
	gw := new(GatewayMock)
	u := newCheckout(new(ProductRepoMock), gw, nil)

	s := model.NewSession(1, cartNow)
	s.Cart.Set(1, 1)

	_, err := u.Checkout(context.Background(), s)
	assert.ErrorIs(t, err, usecase.ErrNotAuthenticated)
	gw.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestCheckout_GatewayError_CartKept(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Price: 1000}, nil)

	gw := new(GatewayMock)
	gw.On("CreatePayment", mock.Anything, mock.Anything).
		Return("", &usecase.GatewayError{Detail: "merchant disabled"}).Once()

	journal := new(JournalMock)
	journal.On("Record", mock.Anything, mock.Anything).Return(errors.New("mongo down")).Once()

	u := newCheckout(products, gw, journal)
	s := authedSession(1, 10)
	s.Cart.Set(1, 3)

	_, err := u.Checkout(context.Background(), s)
	ge, ok := usecase.AsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, "merchant disabled", ge.Detail)
	assert.Equal(t, int64(3), s.Cart.Quantity(1))
}

func TestCheckout_TransportErrorIsGatewayError(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Price: 1000}, nil)

	gw := new(GatewayMock)
	gw.On("CreatePayment", mock.Anything, mock.Anything).Return("", context.DeadlineExceeded).Once()

	u := newCheckout(products, gw, nil)
	s := authedSession(1, 10)
	s.Cart.Set(1, 1)

	_, err := u.Checkout(context.Background(), s)
	_, ok := usecase.AsGatewayError(err)
	assert.True(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, s.Cart.IsEmpty())
}

func TestCheckout_AllProductsMissing(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{}, repo.ErrNotFound)

	gw := new(GatewayMock)
	u := newCheckout(products, gw, nil)
	s := authedSession(1, 10)
	s.Cart.Set(1, 1)

	_, err := u.Checkout(context.Background(), s)
	assert.ErrorIs(t, err, usecase.ErrEmptyCart)
	gw.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}
