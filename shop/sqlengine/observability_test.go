package sqlengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplab/ordershop-go/shop/sqlengine"
	"github.com/shoplab/ordershop-go/testutil/helper"
	"github.com/shoplab/ordershop-go/testutil/helper/sqlitewrapper"
	"github.com/shoplab/ordershop-go/testutil/observability/testdoubles"
)

func Test_Observability_Store_WithContextualLogger_LogsQueries(t *testing.T) {
	// setup
	contextualLogger := testdoubles.NewContextualLoggerSpy()
	wrapper := sqlitewrapper.CreateWrapper(t, sqlengine.WithContextualLogger(contextualLogger))
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// arrange
	member := helper.GivenMemberWasSaved(t, ctx, store, helper.GivenUniqueMemberName(t))
	contextualLogger.Reset()

	// act
	found, err := store.Members().FindOne(ctx, member.ID)

	// assert
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.True(t, contextualLogger.HasLog("debug", "executed sql for: find_member"),
		"should log SQL execution with correct message")
}

func Test_Observability_Store_WithContextualLogger_LogsStatementOutcomes(t *testing.T) {
	// setup
	contextualLogger := testdoubles.NewContextualLoggerSpy()
	wrapper := sqlitewrapper.CreateWrapper(t, sqlengine.WithContextualLogger(contextualLogger))
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// arrange
	book := helper.GivenBookWasSaved(t, ctx, store, "JPA BOOK", 10000, 10)
	book.AddStock(5)
	contextualLogger.Reset()

	// act
	err := store.Items().UpdateStock(ctx, &book.Item)

	// assert
	assert.NoError(t, err)
	assert.True(t, contextualLogger.HasLog("debug", "executed sql for: update_item_stock"),
		"should log SQL execution with correct message")
	assert.True(t, contextualLogger.HasLog("info", "shopstore operation: update_item_stock"),
		"should log statement outcome with rows affected")
	assert.GreaterOrEqual(t, len(contextualLogger.GetRecords()), 2,
		"contextual logger should record at least 2 log entries (debug SQL and info operation)")
}

func Test_Observability_Store_WithContextualLogger_LogsQueryFailures(t *testing.T) {
	// setup
	contextualLogger := testdoubles.NewContextualLoggerSpy()
	wrapper := sqlitewrapper.CreateWrapper(t)
	defer wrapper.Close()
	ctx := context.Background()

	// arrange - a second store over the same database pointed at tables
	// that were never migrated
	store, err := sqlengine.NewStoreFromSQLDB(
		wrapper.DB(),
		sqlengine.WithDialect(sqlengine.DialectSQLite),
		sqlengine.WithTablePrefix("missing_"),
		sqlengine.WithContextualLogger(contextualLogger),
	)
	require.NoError(t, err, "error in arranging test data")

	// act - attempt to query the non-existent table
	_, err = store.Members().FindOne(ctx, 1)

	// assert
	assert.Error(t, err)
	assert.True(t, contextualLogger.HasLog("error", "database query execution failed"),
		"should log the failed query at error level")
}
