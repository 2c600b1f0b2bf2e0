package sqlengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/shoplab/ordershop-go/shop"
	"github.com/shoplab/ordershop-go/shop/sqlengine/internal/adapters"
)

const (
	opSaveItem        = "save_item"
	opFindItem        = "find_item"
	opUpdateItemStock = "update_item_stock"
)

// ItemRepository persists and materializes Item entities.
type ItemRepository struct {
	store   *Store
	session adapters.DBSession
}

// SaveBook inserts a new book and assigns the generated identity.
func (r *ItemRepository) SaveBook(ctx context.Context, book *shop.Book) error {
	insertStmt := r.store.builder().
		Insert(r.store.table(tableItems)).
		Rows(goqu.Record{
			colItemType:      itemTypeBook,
			colName:          book.Name,
			colPrice:         book.Price,
			colStockQuantity: book.StockQuantity,
			colAuthor:        book.Author,
			colISBN:          book.ISBN,
		})

	id, err := r.store.insertReturningID(ctx, r.session, opSaveItem, insertStmt, colItemID)
	if err != nil {
		return err
	}

	book.ID = id

	return nil
}

// FindOne returns the item with the given identity, or nil when no such
// item exists.
func (r *ItemRepository) FindOne(ctx context.Context, id int64) (*shop.Item, error) {
	return r.findOne(ctx, id, false)
}

// FindOneForUpdate returns the item with the given identity, locking its
// row for the rest of the transaction on engines that support row
// locking. Stock checks followed by stock writes must go through this
// method so concurrent writers are serialized (SQLite serializes writers
// on its own, so no explicit lock is taken there).
func (r *ItemRepository) FindOneForUpdate(ctx context.Context, id int64) (*shop.Item, error) {
	return r.findOne(ctx, id, true)
}

// UpdateStock writes the item's current stock counter back to storage.
func (r *ItemRepository) UpdateStock(ctx context.Context, item *shop.Item) error {
	updateStmt := r.store.builder().
		Update(r.store.table(tableItems)).
		Set(goqu.Record{colStockQuantity: item.StockQuantity}).
		Where(goqu.Ex{colItemID: item.ID})

	sqlQuery, args, toSQLErr := updateStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		r.store.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, opUpdateItemStock)
		return errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := r.store.exec(ctx, r.session, opUpdateItemStock, sqlQuery, args)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return shop.ErrItemNotFound
	}

	return nil
}

func (r *ItemRepository) findOne(ctx context.Context, id int64, forUpdate bool) (*shop.Item, error) {
	selectStmt := r.store.builder().
		From(r.store.table(tableItems)).
		Select(colItemID, colName, colPrice, colStockQuantity).
		Where(goqu.Ex{colItemID: id})

	if forUpdate && r.store.rowLocking {
		selectStmt = selectStmt.ForUpdate(exp.Wait)
	}

	sqlQuery, args, toSQLErr := selectStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		r.store.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, opFindItem)
		return nil, errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := r.store.query(ctx, r.session, opFindItem, sqlQuery, args)
	if queryErr != nil {
		return nil, queryErr
	}
	defer r.store.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return nil, errors.Join(shop.ErrQueryingFailed, rowsErr)
		}

		return nil, nil
	}

	item := &shop.Item{}

	scanErr := rows.Scan(&item.ID, &item.Name, &item.Price, &item.StockQuantity)
	if scanErr != nil {
		r.store.logError(ctx, logMsgScanRowFailed, scanErr, logAttrOperation, opFindItem)
		return nil, errors.Join(shop.ErrScanningRowFailed, scanErr)
	}

	return item, nil
}
