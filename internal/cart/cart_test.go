package cart_test

import (
	"math/rand"
	"testing"

	"github.com/dukerupert/sweethome/internal/cart"
	"github.com/dukerupert/sweethome/internal/delivery"
	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cookies = domain.Product{ID: 1, Name: "Classic Chocolate Chip Cookies", Price: decimal.RequireFromString("24.99"), Unit: "dozen", Availability: true}
	bread   = domain.Product{ID: 2, Name: "Artisan Sourdough Bread", Price: decimal.RequireFromString("12.99"), Unit: "loaf", Availability: true}
	pie     = domain.Product{ID: 3, Name: "Classic Apple Pie", Price: decimal.RequireFromString("32.99"), Unit: "whole pie", Availability: true}
)

func bakeryOptions() delivery.Options {
	return delivery.Options{
		{ID: "pickup", Price: decimal.Zero},
		{ID: "local_delivery", Price: decimal.Zero},
		{ID: "express_delivery", Price: decimal.RequireFromString("8.99")},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCart_Add(t *testing.T) {
	t.Run("new product appends a line", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(cookies, 1))
		require.NoError(t, c.Add(bread, 2))

		lines := c.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, cookies.ID, lines[0].Product.ID)
		assert.Equal(t, bread.ID, lines[1].Product.ID)
		assert.Equal(t, 2, lines[1].Quantity)
	})

	t.Run("existing product increments quantity", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(cookies, 1))
		require.NoError(t, c.Add(cookies, 3))

		assert.Equal(t, 1, c.Len())
		line, ok := c.Line(cookies.ID)
		require.True(t, ok)
		assert.Equal(t, 4, line.Quantity)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(cookies, 1))

		for _, q := range []int{0, -1, -10} {
			err := c.Add(bread, q)
			assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
			assert.True(t, domain.IsInvalid(err))
		}
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, 1, c.ItemCount())
	})
}

func TestCart_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		productID int
		quantity  int
		wantLen     int
		wantQty     int
		wantRemoved bool
		wantErr     string
	}{
		{name: "sets quantity", productID: cookies.ID, quantity: 5, wantLen: 2, wantQty: 5},
		{name: "zero removes line", productID: cookies.ID, quantity: 0, wantLen: 1, wantRemoved: true},
		{name: "negative removes line", productID: cookies.ID, quantity: -3, wantLen: 1, wantRemoved: true},
		{name: "removing absent line is a no-op", productID: pie.ID, quantity: 0, wantLen: 2},
		{name: "setting absent line is not found", productID: pie.ID, quantity: 2, wantLen: 2, wantErr: domain.ENOTFOUND},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cart.New()
			require.NoError(t, c.Add(cookies, 2))
			require.NoError(t, c.Add(bread, 1))

			removed, err := c.UpdateQuantity(tt.productID, tt.quantity)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, domain.ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRemoved, removed)

			assert.Equal(t, tt.wantLen, c.Len())
			if tt.wantQty > 0 {
				line, ok := c.Line(tt.productID)
				require.True(t, ok)
				assert.Equal(t, tt.wantQty, line.Quantity)
			}
		})
	}
}

func TestCart_Remove(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(cookies, 1))
	require.NoError(t, c.Add(bread, 1))
	require.NoError(t, c.Add(pie, 1))

	assert.True(t, c.Remove(bread.ID))
	assert.False(t, c.Remove(bread.ID))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, cookies.ID, lines[0].Product.ID)
	assert.Equal(t, pie.ID, lines[1].Product.ID, "insertion order survives removal")
}

func TestCart_Totals(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(cookies, 2))
	require.NoError(t, c.Add(bread, 1))

	options := bakeryOptions()

	assert.True(t, c.Subtotal().Equal(dec("62.97")), "subtotal = %s", c.Subtotal())
	assert.True(t, c.DeliveryFee("express_delivery", options).Equal(dec("8.99")))
	assert.True(t, c.Total("express_delivery", options).Equal(dec("71.96")), "total = %s", c.Total("express_delivery", options))
	assert.True(t, c.Total("pickup", options).Equal(dec("62.97")))
	assert.True(t, c.Total("unknown", options).Equal(dec("62.97")), "unknown delivery adds nothing")
	assert.Equal(t, 3, c.ItemCount())
}

func TestCart_EmptyTotals(t *testing.T) {
	var c cart.Cart

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())
	assert.Equal(t, 0, c.ItemCount())
	assert.True(t, c.Total("express_delivery", bakeryOptions()).Equal(dec("8.99")))
}

func TestCart_TotalIsAdditive(t *testing.T) {
	options := bakeryOptions()

	c := cart.New()
	require.NoError(t, c.Add(cookies, 2))
	before := c.Total("express_delivery", options)

	require.NoError(t, c.Add(pie, 3))
	after := c.Total("express_delivery", options)

	expected := before.Add(pie.Price.Mul(decimal.NewFromInt(3)))
	assert.True(t, after.Equal(expected), "got %s, want %s", after, expected)
}

func TestCart_CloneIsIndependent(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(cookies, 1))

	clone := c.Clone()
	require.NoError(t, c.Add(cookies, 1))
	c.Clear()

	assert.True(t, c.IsEmpty())
	line, ok := clone.Line(cookies.ID)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
}

func TestCart_RandomOperationsKeepInvariants(t *testing.T) {
	products := []domain.Product{cookies, bread, pie}
	rng := rand.New(rand.NewSource(42))
	c := cart.New()

	for i := 0; i < 2000; i++ {
		p := products[rng.Intn(len(products))]
		q := rng.Intn(7) - 2

		lenBefore := c.Len()
		_, present := c.Line(p.ID)

		if rng.Intn(2) == 0 {
			_ = c.Add(p, q)
		} else {
			removed, _ := c.UpdateQuantity(p.ID, q)
			if q <= 0 {
				assert.Equal(t, present, removed)
				if present {
					assert.Equal(t, lenBefore-1, c.Len())
				} else {
					assert.Equal(t, lenBefore, c.Len())
				}
			}
		}

		seen := map[int]bool{}
		sum := 0
		for _, l := range c.Lines() {
			require.False(t, seen[l.Product.ID], "duplicate line for product %d", l.Product.ID)
			seen[l.Product.ID] = true
			require.GreaterOrEqual(t, l.Quantity, 1)
			sum += l.Quantity
		}
		require.Equal(t, sum, c.ItemCount())
	}
}
