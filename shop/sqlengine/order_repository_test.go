package sqlengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplab/ordershop-go/shop"
	"github.com/shoplab/ordershop-go/shop/sqlengine"
	"github.com/shoplab/ordershop-go/testutil/helper"
	"github.com/shoplab/ordershop-go/testutil/helper/sqlitewrapper"
)

func Test_OrderRepository_Save_AssignsIdentitiesToTheWholeAggregate(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// arrange
	member := helper.GivenMemberWasSaved(t, ctx, store, helper.GivenUniqueMemberName(t))
	book := helper.GivenBookWasSaved(t, ctx, store, "Learning Domain-Driven Design", 10000, 10)

	// act
	order := helper.GivenOrderWasSaved(t, ctx, store, member, &book.Item, 3)

	// assert
	assert.NotZero(t, order.ID)
	assert.NotZero(t, order.Delivery.ID)
	require.Len(t, order.OrderItems, 1)
	assert.NotZero(t, order.OrderItems[0].ID)
}

func Test_OrderRepository_FindOne_MaterializesTheFullOrderGraph(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// arrange
	memberName := helper.GivenUniqueMemberName(t)
	member := helper.GivenMemberWasSaved(t, ctx, store, memberName)
	book := helper.GivenBookWasSaved(t, ctx, store, "Learning Domain-Driven Design", 10000, 10)
	saved := helper.GivenOrderWasSaved(t, ctx, store, member, &book.Item, 3)

	// act
	order, err := store.Orders().FindOne(ctx, saved.ID)

	// assert
	assert.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, saved.ID, order.ID)
	assert.Equal(t, shop.StatusOrdered, order.Status)
	assert.True(t, order.OrderDate.Equal(helper.FakeClock), "the order date should survive the round trip")

	require.NotNil(t, order.Member)
	assert.Equal(t, member.ID, order.Member.ID)
	assert.Equal(t, memberName, order.Member.Name)

	require.NotNil(t, order.Delivery)
	assert.Equal(t, shop.DeliveryReady, order.Delivery.Status)
	assert.Equal(t, member.Address, order.Delivery.Address, "the delivery goes to the member's address")

	require.Len(t, order.OrderItems, 1)
	line := order.OrderItems[0]
	assert.Equal(t, int64(10000), line.OrderPrice)
	assert.Equal(t, int64(3), line.Count)
	require.NotNil(t, line.Item)
	assert.Equal(t, book.ID, line.Item.ID)
	assert.Equal(t, int64(7), line.Item.StockQuantity, "the persisted stock reflects the placed order")
	assert.Equal(t, int64(30000), order.TotalPrice())
}

func Test_OrderRepository_FindOne_ReturnsNil_WhenTheOrderDoesNotExist(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// act
	order, err := store.Orders().FindOne(ctx, 424242)

	// assert
	assert.NoError(t, err, "an absent order is not an error")
	assert.Nil(t, order)
}

func Test_OrderRepository_UpdateStatus_Fails_WhenTheOrderDoesNotExist(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// arrange
	order := &shop.Order{ID: 424242, Status: shop.StatusCanceled}

	// act
	err := store.Orders().UpdateStatus(ctx, order)

	// assert
	assert.ErrorIs(t, err, shop.ErrOrderNotFound)
}

func Test_OrderRepository_Search_FindsOrdersByMemberNameSubstring(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// arrange
	member := helper.GivenMemberWasSaved(t, ctx, store, helper.GivenUniqueMemberName(t))
	other := helper.GivenMemberWasSaved(t, ctx, store, helper.GivenUniqueMemberName(t))
	book := helper.GivenBookWasSaved(t, ctx, store, "Learning Domain-Driven Design", 10000, 10)
	wanted := helper.GivenOrderWasSaved(t, ctx, store, member, &book.Item, 1)
	helper.GivenOrderWasSaved(t, ctx, store, other, &book.Item, 1)

	// act - search with a fragment of the member's name
	orders, err := store.Orders().Search(ctx, sqlengine.OrderSearch{MemberName: member.Name[len("member-"):]})

	// assert
	assert.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, wanted.ID, orders[0].ID)
	assert.Equal(t, member.Name, orders[0].Member.Name)
}

func Test_OrderRepository_Search_FindsOrdersByStatus(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// arrange - one open and one canceled order
	member := helper.GivenMemberWasSaved(t, ctx, store, helper.GivenUniqueMemberName(t))
	book := helper.GivenBookWasSaved(t, ctx, store, "Learning Domain-Driven Design", 10000, 10)
	open := helper.GivenOrderWasSaved(t, ctx, store, member, &book.Item, 1)
	canceled := helper.GivenOrderWasSaved(t, ctx, store, member, &book.Item, 1)
	canceled.Status = shop.StatusCanceled
	require.NoError(t, store.Orders().UpdateStatus(ctx, canceled))

	// act
	orderedOnly, err := store.Orders().Search(ctx, sqlengine.OrderSearch{Status: shop.StatusOrdered})
	require.NoError(t, err)
	canceledOnly, err := store.Orders().Search(ctx, sqlengine.OrderSearch{Status: shop.StatusCanceled})
	require.NoError(t, err)

	// assert
	require.Len(t, orderedOnly, 1)
	assert.Equal(t, open.ID, orderedOnly[0].ID)
	require.Len(t, canceledOnly, 1)
	assert.Equal(t, canceled.ID, canceledOnly[0].ID)
}

func Test_OrderRepository_Search_ReturnsEmptySlice_WhenNothingMatches(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// arrange
	member := helper.GivenMemberWasSaved(t, ctx, store, helper.GivenUniqueMemberName(t))
	book := helper.GivenBookWasSaved(t, ctx, store, "Learning Domain-Driven Design", 10000, 10)
	helper.GivenOrderWasSaved(t, ctx, store, member, &book.Item, 1)

	// act
	orders, err := store.Orders().Search(ctx, sqlengine.OrderSearch{MemberName: "no-such-member"})

	// assert
	assert.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func Test_OrderRepository_Search_RespectsTheLimit(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// arrange
	member := helper.GivenMemberWasSaved(t, ctx, store, helper.GivenUniqueMemberName(t))
	book := helper.GivenBookWasSaved(t, ctx, store, "Learning Domain-Driven Design", 10000, 10)
	for range 3 {
		helper.GivenOrderWasSaved(t, ctx, store, member, &book.Item, 1)
	}

	// act
	orders, err := store.Orders().Search(ctx, sqlengine.OrderSearch{Limit: 2})

	// assert
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
}
