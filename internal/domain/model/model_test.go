package model_test

import (
	"testing"
	"time"

	"storebot/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalPrice(t *testing.T) {
	cases := []struct {
		price, discount, want int64
	}{
		{1000, 10, 900},
		{999, 33, 669},
		{1000, 0, 1000},
		{1000, 100, 0},
		{1000, -5, 1000},
		{1000, 150, 0},
		{0, 50, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, model.FinalPrice(tc.price, tc.discount), "price=%d discount=%d", tc.price, tc.discount)
	}

	p := model.Product{Price: 2500, Discount: 20, Stock: 0}
	assert.Equal(t, int64(2000), p.FinalPrice())
	assert.False(t, p.InStock())
}

func TestCart_KeepsInsertionOrder(t *testing.T) {
	var c model.Cart
	assert.True(t, c.IsEmpty())

	c.Set(3, 1)
	c.Set(1, 2)
	c.Set(3, 4)

	assert.Equal(t, []model.CartEntry{{ProductID: 3, Quantity: 4}, {ProductID: 1, Quantity: 2}}, c.Entries())
	assert.Equal(t, int64(4), c.Quantity(3))
	assert.Equal(t, int64(0), c.Quantity(99))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []int64{3, 1}, c.ProductIDs())
}

func TestCart_SetZeroRemoves(t *testing.T) {
	var c model.Cart
	c.Set(1, 1)
	c.Set(1, 0)
	assert.True(t, c.IsEmpty())

	assert.False(t, c.Remove(1))
	c.Set(2, 1)
	assert.True(t, c.Remove(2))
	assert.True(t, c.IsEmpty())
}

func TestCart_EntriesIsCopy(t *testing.T) {
	var c model.Cart
	c.Set(1, 1)

	es := c.Entries()
	es[0].Quantity = 100
	assert.Equal(t, int64(1), c.Quantity(1))

	c.Reset()
	assert.Empty(t, c.Entries())
}

func TestSession_Flow(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := model.NewSession(7, now)

	require.Equal(t, model.StepIdle, s.Step)
	assert.False(t, s.InFlow())
	assert.Equal(t, now, s.LastSeenAt)

	s.Begin(model.FlowLogin, model.StepLoginEmail)
	s.Scratch.Email = "ali@example.com"
	assert.True(t, s.InFlow())

	// 開始し直すと一時データは消える
	s.Begin(model.FlowRegister, model.StepRegisterFirstName)
	assert.Empty(t, s.Scratch.Email)

	s.EndFlow()
	assert.False(t, s.InFlow())
	assert.Equal(t, model.Scratch{}, s.Scratch)
}

func TestSession_SignInOut(t *testing.T) {
	s := model.NewSession(7, time.Now())
	s.SignIn(&model.User{ID: 12, Email: "ali@example.com"})
	assert.True(t, s.Authenticated)
	assert.Equal(t, int64(12), s.UserID)

	s.SignOut()
	assert.False(t, s.Authenticated)
	assert.Zero(t, s.UserID)
	assert.Empty(t, s.UserEmail)
}
