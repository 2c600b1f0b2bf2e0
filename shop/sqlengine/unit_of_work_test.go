package sqlengine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplab/ordershop-go/shop/sqlengine"
	"github.com/shoplab/ordershop-go/testutil/helper"
	"github.com/shoplab/ordershop-go/testutil/helper/sqlitewrapper"
)

func Test_ExecuteInTx_CommitsAllWrites_WhenTheFunctionSucceeds(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// act
	err := store.ExecuteInTx(ctx, func(ctx context.Context, uow *sqlengine.UnitOfWork) error {
		member := helper.FixtureMember(helper.GivenUniqueMemberName(t))
		if saveErr := uow.Members().Save(ctx, member); saveErr != nil {
			return saveErr
		}

		book := helper.FixtureBook("Learning Domain-Driven Design", 10000, 10)

		return uow.Items().SaveBook(ctx, book)
	})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, sqlitewrapper.CountRows(t, wrapper, "members"))
	assert.Equal(t, 1, sqlitewrapper.CountRows(t, wrapper, "items"))
}

func Test_ExecuteInTx_RollsBackAllWrites_WhenTheFunctionFails(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	failure := errors.New("something went wrong halfway through")

	// act - the member save succeeds inside the transaction, then fail
	err := store.ExecuteInTx(ctx, func(ctx context.Context, uow *sqlengine.UnitOfWork) error {
		member := helper.FixtureMember(helper.GivenUniqueMemberName(t))
		if saveErr := uow.Members().Save(ctx, member); saveErr != nil {
			return saveErr
		}

		return failure
	})

	// assert - the error surfaces unchanged and nothing was written
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 0, sqlitewrapper.CountRows(t, wrapper, "members"))
}

func Test_ExecuteInTx_WritesInsideTheTransactionAreVisibleToIt(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// act
	err := store.ExecuteInTx(ctx, func(ctx context.Context, uow *sqlengine.UnitOfWork) error {
		member := helper.FixtureMember(helper.GivenUniqueMemberName(t))
		if saveErr := uow.Members().Save(ctx, member); saveErr != nil {
			return saveErr
		}

		found, findErr := uow.Members().FindOne(ctx, member.ID)
		if findErr != nil {
			return findErr
		}
		require.NotNil(t, found, "the uncommitted member should be visible inside its own transaction")

		return nil
	})

	// assert
	assert.NoError(t, err)
}
