// Package helper provides fixtures and arrange-phase helpers shared by
// the repository and service test suites.
package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shoplab/ordershop-go/shop"
	"github.com/shoplab/ordershop-go/shop/sqlengine"
)

// FakeClock is a fixed order date so tests can assert on it.
var FakeClock = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

// GivenUniqueMemberName returns a member name that no other test run
// can collide with.
func GivenUniqueMemberName(t testing.TB) string {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return "member-" + id.String()
}

// FixtureAddress returns a plain address fixture.
func FixtureAddress() shop.Address {
	return shop.BuildAddress("Seoul", "Teheran-ro 1", "04524")
}

// FixtureMember returns an unsaved member with the given name.
func FixtureMember(name string) *shop.Member {
	return shop.BuildMember(name, FixtureAddress())
}

// FixtureBook returns an unsaved book fixture.
func FixtureBook(name string, price int64, stockQuantity int64) *shop.Book {
	return shop.BuildBook(name, price, stockQuantity, "Kim Young-han", "978-89-6626-241-1")
}

// GivenMemberWasSaved stores a member with the given name and returns it
// with its identity assigned.
func GivenMemberWasSaved(t testing.TB, ctx context.Context, store *sqlengine.Store, name string) *shop.Member {
	t.Helper()

	member := FixtureMember(name)
	err := store.Members().Save(ctx, member)
	require.NoError(t, err, "error in arranging test data")
	require.NotZero(t, member.ID, "member identity should be assigned on save")

	return member
}

// GivenBookWasSaved stores a book and returns it with its identity
// assigned.
func GivenBookWasSaved(t testing.TB, ctx context.Context, store *sqlengine.Store, name string, price int64, stockQuantity int64) *shop.Book {
	t.Helper()

	book := FixtureBook(name, price, stockQuantity)
	err := store.Items().SaveBook(ctx, book)
	require.NoError(t, err, "error in arranging test data")
	require.NotZero(t, book.ID, "item identity should be assigned on save")

	return book
}

// GivenOrderWasSaved builds and stores an order of the given count of
// one item for one member, persisting the decremented stock as well.
// It returns the stored order with all identities assigned.
func GivenOrderWasSaved(t testing.TB, ctx context.Context, store *sqlengine.Store, member *shop.Member, item *shop.Item, count int64) *shop.Order {
	t.Helper()

	orderItem, err := shop.BuildOrderItem(item, item.Price, count)
	require.NoError(t, err, "error in arranging test data")

	delivery := shop.BuildDelivery(member.Address)
	order := shop.BuildOrder(member, delivery, FakeClock, orderItem)

	err = store.Orders().Save(ctx, order)
	require.NoError(t, err, "error in arranging test data")

	err = store.Items().UpdateStock(ctx, item)
	require.NoError(t, err, "error in arranging test data")

	return order
}
