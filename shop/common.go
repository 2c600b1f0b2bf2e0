package shop

import (
	"errors"
	"fmt"
)

var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrEmptyTablePrefix = errors.New("empty table prefix supplied")
var ErrUnsupportedDialect = errors.New("unsupported sql dialect supplied")

var ErrBuildingQueryFailed = errors.New("building the sql query failed")
var ErrQueryingFailed = errors.New("executing the sql query failed")
var ErrScanningRowFailed = errors.New("scanning the database row failed")
var ErrExecutingFailed = errors.New("executing the sql statement failed")
var ErrBeginningTxFailed = errors.New("beginning the transaction failed")
var ErrCommittingTxFailed = errors.New("committing the transaction failed")

var ErrMemberNotFound = errors.New("member not found")
var ErrItemNotFound = errors.New("item not found")
var ErrOrderNotFound = errors.New("order not found")

var ErrOrderAlreadyCanceled = errors.New("the order is already canceled")
var ErrDeliveryAlreadyCompleted = errors.New("a completed delivery can not be canceled")

// ErrOutOfStock is the class sentinel for stock shortage failures.
// Use errors.Is against it and errors.As against *OutOfStockError to
// access the attempted and available quantities.
var ErrOutOfStock = errors.New("need more stock")

// OutOfStockError is returned by Item.RemoveStock when the requested
// quantity exceeds the available stock. The stock counter is left
// unchanged when this error is returned.
type OutOfStockError struct {
	Requested int64
	Available int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("need more stock: requested %d but only %d available", e.Requested, e.Available)
}

func (e *OutOfStockError) Unwrap() error {
	return ErrOutOfStock
}
