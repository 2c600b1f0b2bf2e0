package shop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplab/ordershop-go/shop"
)

func Test_BuildOrderItem_SnapshotsPriceAndCount_AndRemovesStock(t *testing.T) {
	// arrange
	book := shop.BuildBook("Spring Boot", 10000, 10, "", "")

	// act
	orderItem, err := shop.BuildOrderItem(&book.Item, book.Price, 3)

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(10000), orderItem.OrderPrice)
	assert.Equal(t, int64(3), orderItem.Count)
	assert.Equal(t, int64(30000), orderItem.TotalPrice())
	assert.Equal(t, int64(7), book.StockQuantity, "placing an order line must remove the ordered count from stock")
}

func Test_BuildOrderItem_Fails_WhenStockIsInsufficient(t *testing.T) {
	// arrange
	book := shop.BuildBook("Spring Boot", 10000, 10, "", "")

	// act
	orderItem, err := shop.BuildOrderItem(&book.Item, book.Price, 11)

	// assert
	assert.Nil(t, orderItem)
	assert.ErrorIs(t, err, shop.ErrOutOfStock)
	assert.Equal(t, int64(10), book.StockQuantity)
}

func Test_BuildOrder_LinksBothSidesOfEveryAssociation(t *testing.T) {
	// arrange
	member := shop.BuildMember("Mona", shop.BuildAddress("Seoul", "Dongjak", "12345"))
	delivery := shop.BuildDelivery(member.Address)
	book := shop.BuildBook("Spring Boot", 10000, 10, "", "")
	orderItem, err := shop.BuildOrderItem(&book.Item, book.Price, 2)
	require.NoError(t, err)

	// act
	order := shop.BuildOrder(member, delivery, time.Now(), orderItem)

	// assert
	assert.Equal(t, shop.StatusOrdered, order.Status)
	assert.Same(t, member, order.Member)
	assert.Contains(t, member.Orders, order, "setting the member must append the order to the member's collection")
	assert.Same(t, delivery, order.Delivery)
	assert.Same(t, order, delivery.Order, "setting the delivery must back-link the delivery to the order")
	require.Len(t, order.OrderItems, 1)
	assert.Same(t, order, order.OrderItems[0].Order, "adding an order item must back-link it to the order")
}

func Test_TotalPrice_IsTheSumOfAllLineTotals(t *testing.T) {
	// arrange
	member := shop.BuildMember("Mona", shop.BuildAddress("Seoul", "Dongjak", "12345"))
	delivery := shop.BuildDelivery(member.Address)
	bootBook := shop.BuildBook("Spring Boot", 10000, 10, "", "")
	jpaBook := shop.BuildBook("JPA Programming", 20000, 10, "", "")

	firstLine, err := shop.BuildOrderItem(&bootBook.Item, bootBook.Price, 3)
	require.NoError(t, err)
	secondLine, err := shop.BuildOrderItem(&jpaBook.Item, jpaBook.Price, 2)
	require.NoError(t, err)

	// act
	order := shop.BuildOrder(member, delivery, time.Now(), firstLine, secondLine)

	// assert
	assert.Equal(t, int64(10000*3+20000*2), order.TotalPrice())
}

func Test_Cancel_FlipsTheStatus_AndRestoresStockForEveryOrderItem(t *testing.T) {
	// arrange
	member := shop.BuildMember("Mona", shop.BuildAddress("Seoul", "Dongjak", "12345"))
	delivery := shop.BuildDelivery(member.Address)
	book := shop.BuildBook("Spring Boot", 10000, 10, "", "")
	orderItem, err := shop.BuildOrderItem(&book.Item, book.Price, 2)
	require.NoError(t, err)
	order := shop.BuildOrder(member, delivery, time.Now(), orderItem)
	require.Equal(t, int64(8), book.StockQuantity)

	// act
	cancelErr := order.Cancel()

	// assert
	assert.NoError(t, cancelErr)
	assert.Equal(t, shop.StatusCanceled, order.Status)
	assert.Equal(t, int64(10), book.StockQuantity, "cancelling must restore exactly the ordered quantity")
}

func Test_Cancel_Fails_WhenTheOrderIsAlreadyCanceled(t *testing.T) {
	// arrange
	member := shop.BuildMember("Mona", shop.BuildAddress("Seoul", "Dongjak", "12345"))
	delivery := shop.BuildDelivery(member.Address)
	book := shop.BuildBook("Spring Boot", 10000, 10, "", "")
	orderItem, err := shop.BuildOrderItem(&book.Item, book.Price, 2)
	require.NoError(t, err)
	order := shop.BuildOrder(member, delivery, time.Now(), orderItem)
	require.NoError(t, order.Cancel())

	// act
	cancelErr := order.Cancel()

	// assert
	assert.ErrorIs(t, cancelErr, shop.ErrOrderAlreadyCanceled)
	assert.Equal(t, int64(10), book.StockQuantity, "a rejected second cancel must not restore stock twice")
}

func Test_Cancel_Fails_WhenTheDeliveryHasAlreadyCompleted(t *testing.T) {
	// arrange
	member := shop.BuildMember("Mona", shop.BuildAddress("Seoul", "Dongjak", "12345"))
	delivery := shop.BuildDelivery(member.Address)
	book := shop.BuildBook("Spring Boot", 10000, 10, "", "")
	orderItem, err := shop.BuildOrderItem(&book.Item, book.Price, 2)
	require.NoError(t, err)
	order := shop.BuildOrder(member, delivery, time.Now(), orderItem)
	delivery.Status = shop.DeliveryCompleted

	// act
	cancelErr := order.Cancel()

	// assert
	assert.ErrorIs(t, cancelErr, shop.ErrDeliveryAlreadyCompleted)
	assert.Equal(t, shop.StatusOrdered, order.Status)
	assert.Equal(t, int64(8), book.StockQuantity)
}
