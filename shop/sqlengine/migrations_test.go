package sqlengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shoplab/ordershop-go/testutil/helper"
	"github.com/shoplab/ordershop-go/testutil/helper/sqlitewrapper"
)

func Test_ApplyMigrations_IsIdempotent(t *testing.T) {
	// setup - CreateWrapper already applied all migrations once
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// act
	err := store.ApplyMigrations(ctx)

	// assert - applying again must be a no-op, not a DDL failure
	assert.NoError(t, err)
}

func Test_ApplyMigrations_CreatesAUsableSchema(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// act - one write per table proves the schema is complete
	member := helper.GivenMemberWasSaved(t, ctx, store, helper.GivenUniqueMemberName(t))
	book := helper.GivenBookWasSaved(t, ctx, store, "Learning Domain-Driven Design", 10000, 10)
	helper.GivenOrderWasSaved(t, ctx, store, member, &book.Item, 1)

	// assert
	assert.Equal(t, 1, sqlitewrapper.CountRows(t, wrapper, "members"))
	assert.Equal(t, 1, sqlitewrapper.CountRows(t, wrapper, "items"))
	assert.Equal(t, 1, sqlitewrapper.CountRows(t, wrapper, "deliveries"))
	assert.Equal(t, 1, sqlitewrapper.CountRows(t, wrapper, "orders"))
	assert.Equal(t, 1, sqlitewrapper.CountRows(t, wrapper, "order_items"))
}
