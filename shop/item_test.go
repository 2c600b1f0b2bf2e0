package shop_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shoplab/ordershop-go/shop"
)

func Test_RemoveStock_Success_WhenEnoughStockAvailable(t *testing.T) {
	// arrange
	book := shop.BuildBook("Learning Domain-Driven Design", 10000, 10, "Vlad Khononov", "978-1-098-10013-1")

	// act
	err := book.RemoveStock(3)

	// assert
	assert.NoError(t, err, "removing stock within the available quantity should succeed")
	assert.Equal(t, int64(7), book.StockQuantity)
}

func Test_RemoveStock_Success_WhenRemovingExactlyTheAvailableStock(t *testing.T) {
	// arrange
	book := shop.BuildBook("Learning Domain-Driven Design", 10000, 10, "Vlad Khononov", "978-1-098-10013-1")

	// act
	err := book.RemoveStock(10)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, int64(0), book.StockQuantity)
}

func Test_RemoveStock_Fails_AndLeavesStockUnchanged_WhenNotEnoughStockAvailable(t *testing.T) {
	// arrange
	book := shop.BuildBook("Learning Domain-Driven Design", 10000, 10, "Vlad Khononov", "978-1-098-10013-1")

	// act
	err := book.RemoveStock(11)

	// assert
	assert.Error(t, err)
	assert.ErrorIs(t, err, shop.ErrOutOfStock)
	assert.ErrorContains(t, err, "need more stock")
	assert.Equal(t, int64(10), book.StockQuantity, "a failed removal must not change the stock")

	var outOfStock *shop.OutOfStockError
	assert.True(t, errors.As(err, &outOfStock), "the error should carry the attempted quantities")
	assert.Equal(t, int64(11), outOfStock.Requested)
	assert.Equal(t, int64(10), outOfStock.Available)
}

func Test_AddStock_IncreasesTheStockCounter(t *testing.T) {
	// arrange
	book := shop.BuildBook("Learning Domain-Driven Design", 10000, 10, "Vlad Khononov", "978-1-098-10013-1")

	// act
	book.AddStock(5)

	// assert
	assert.Equal(t, int64(15), book.StockQuantity)
}
