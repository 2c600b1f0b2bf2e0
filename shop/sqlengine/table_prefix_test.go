package sqlengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplab/ordershop-go/shop/sqlengine"
	"github.com/shoplab/ordershop-go/testutil/helper"
	"github.com/shoplab/ordershop-go/testutil/helper/sqlitewrapper"
)

func Test_WithTablePrefix_MigrationsCreatePrefixedTables(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t, sqlengine.WithTablePrefix("tenant_"))
	defer wrapper.Close()

	// act
	rows, err := wrapper.DB().Query(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE 'tenant_%' ORDER BY name`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())

	// assert
	assert.Equal(
		t,
		[]string{
			"tenant_deliveries",
			"tenant_items",
			"tenant_members",
			"tenant_order_items",
			"tenant_orders",
			"tenant_schema_version",
		},
		tables,
	)
}

func Test_WithTablePrefix_RepositoriesReadAndWritePrefixedTables(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapper(t, sqlengine.WithTablePrefix("tenant_"))
	defer wrapper.Close()
	store := wrapper.GetStore()
	ctx := context.Background()

	// arrange
	name := helper.GivenUniqueMemberName(t)
	saved := helper.GivenMemberWasSaved(t, ctx, store, name)

	// act
	found, err := store.Members().FindOne(ctx, saved.ID)

	// assert
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, name, found.Name)
	assert.Equal(t, 1, sqlitewrapper.CountRows(t, wrapper, "tenant_members"))
}
