package session

import (
	"testing"

	"github.com/dukerupert/sweethome/internal/bakeryapi/bakeryapitest"
	"github.com/dukerupert/sweethome/internal/cart"
	"github.com/dukerupert/sweethome/internal/delivery"
	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderRequest(t *testing.T) {
	options := delivery.Options(bakeryapitest.SeedDeliveryOptions())

	t.Run("empty cart", func(t *testing.T) {
		_, err := BuildOrderRequest(cart.New(), "pickup", options, customer, "")
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
	})

	t.Run("unmatched selection has no fee", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(product(1), 1))

		req, err := BuildOrderRequest(c, "drone", options, customer, "")
		require.NoError(t, err)
		assert.True(t, req.DeliveryFee.IsZero())
		assert.True(t, req.Total.Equal(req.Subtotal))
		assert.Equal(t, "drone", req.DeliveryOption)
	})

	t.Run("items keep cart order and unit prices", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(product(3), 1))
		require.NoError(t, c.Add(product(1), 2))

		req, err := BuildOrderRequest(c, "express_delivery", options, customer, "")
		require.NoError(t, err)
		require.Len(t, req.Items, 2)
		assert.Equal(t, 3, req.Items[0].ProductID)
		assert.Equal(t, 1, req.Items[1].ProductID)
		assert.Equal(t, 2, req.Items[1].Quantity)
		assert.Equal(t, "82.97", req.Subtotal.StringFixed(2))
		assert.Equal(t, "91.96", req.Total.StringFixed(2))
		assert.Equal(t, customer, req.CustomerInfo)
	})
}
