package guard_test

import (
	"errors"
	"testing"

	"storefront/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// Then
		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expectedError := errors.New("line item not constructed")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

// TestConstructorGuardUsageExample shows the guard embedded in a value object.
func TestConstructorGuardUsageExample(t *testing.T) {
	type lineItem struct {
		sku      string
		quantity int
		guard    guard.ConstructorGuard
	}

	errLineItemNotConstructed := errors.New("lineItem must be created via newLineItem")

	newLineItem := func(sku string, quantity int) (lineItem, error) {
		if quantity <= 0 {
			return lineItem{}, errors.New("quantity must be positive")
		}
		return lineItem{sku: sku, quantity: quantity, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("valid_construction_through_constructor", func(t *testing.T) {
		item, err := newLineItem("tea-500g", 2)

		require.NoError(t, err)
		require.NoError(t, item.guard.Validate(errLineItemNotConstructed))
	})

	t.Run("literal_construction_fails_validation", func(t *testing.T) {
		item := lineItem{sku: "tea-500g", quantity: 2}

		assert.Equal(t, errLineItemNotConstructed, item.guard.Validate(errLineItemNotConstructed))
	})

	t.Run("rejected_construction_returns_zero_value", func(t *testing.T) {
		item, err := newLineItem("tea-500g", 0)

		require.Error(t, err)
		require.Error(t, item.guard.Validate(errLineItemNotConstructed))
	})
}

func TestConstructorGuard_CopiesStayConstructed(t *testing.T) {
	g := guard.NewConstructorGuard()
	copied := g

	require.NoError(t, g.Validate(nil))
	require.NoError(t, copied.Validate(nil))
}

func BenchmarkConstructorGuard(b *testing.B) {
	g := guard.NewConstructorGuard()
	err := errors.New("not constructed")
	b.ResetTimer()
	for range b.N {
		_ = g.Validate(err)
	}
}
