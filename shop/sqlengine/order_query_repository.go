package sqlengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/shoplab/ordershop-go/shop"
	"github.com/shoplab/ordershop-go/shop/sqlengine/internal/adapters"
)

const (
	opFindOrderDtos     = "find_order_dtos"
	opFindOrderItemDtos = "find_order_item_dtos"
)

// OrderQueryRepository materializes the read-only order report.
//
// The to-one relations (member, delivery) are joined in a single query;
// the to-many order lines are fetched separately, because joining them
// onto the order rows would multiply each order by its line count and
// corrupt aggregate reporting. FindOrderDtos is the naive 1+N baseline,
// FindOrderDtosOptimized batches all order lines into one IN-list query
// so the whole report costs exactly two queries.
type OrderQueryRepository struct {
	store   *Store
	session adapters.DBSession
}

// FindOrders returns one OrderQueryDto per order, with member name and
// delivery address joined in and an empty Items slice. Order lines are
// deliberately not joined here.
func (r *OrderQueryRepository) FindOrders(ctx context.Context) ([]OrderQueryDto, error) {
	selectStmt := r.store.builder().
		From(goqu.T(r.store.table(tableOrders)).As("o")).
		Join(
			goqu.T(r.store.table(tableMembers)).As("m"),
			goqu.On(goqu.I("o."+colMemberID).Eq(goqu.I("m."+colMemberID))),
		).
		Join(
			goqu.T(r.store.table(tableDeliveries)).As("d"),
			goqu.On(goqu.I("o."+colDeliveryID).Eq(goqu.I("d."+colDeliveryID))),
		).
		Select(
			goqu.I("o."+colOrderID), goqu.I("m."+colName),
			goqu.I("o."+colOrderDate), goqu.I("o."+colStatus),
			goqu.I("d."+colCity), goqu.I("d."+colStreet), goqu.I("d."+colZipcode),
		).
		Order(goqu.I("o." + colOrderID).Asc())

	sqlQuery, args, toSQLErr := selectStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		r.store.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, opFindOrderDtos)
		return nil, errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := r.store.query(ctx, r.session, opFindOrderDtos, sqlQuery, args)
	if queryErr != nil {
		return nil, queryErr
	}
	defer r.store.closeRows(ctx, rows)

	orders := make([]OrderQueryDto, 0)

	for rows.Next() {
		order := OrderQueryDto{Items: make([]OrderItemQueryDto, 0)}

		var status string

		scanErr := rows.Scan(
			&order.OrderID, &order.MemberName,
			&order.OrderDate, &status,
			&order.Address.City, &order.Address.Street, &order.Address.Zipcode,
		)
		if scanErr != nil {
			r.store.logError(ctx, logMsgScanRowFailed, scanErr, logAttrOperation, opFindOrderDtos)
			return nil, errors.Join(shop.ErrScanningRowFailed, scanErr)
		}

		order.Status = shop.OrderStatus(status)

		orders = append(orders, order)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(shop.ErrQueryingFailed, rowsErr)
	}

	return orders, nil
}

// FindOrderItems returns one OrderItemQueryDto per order line of the
// given order, joined with the item for its name, in storage order.
func (r *OrderQueryRepository) FindOrderItems(ctx context.Context, orderID int64) ([]OrderItemQueryDto, error) {
	return r.queryOrderItems(ctx, goqu.I("oi."+colOrderID).Eq(orderID))
}

// FindOrderDtos is the naive report variant: one query for the orders,
// then one order-line query per order. Correct, but it issues 1 + N
// queries for N orders; it exists as the baseline FindOrderDtosOptimized
// is measured against.
func (r *OrderQueryRepository) FindOrderDtos(ctx context.Context) ([]OrderQueryDto, error) {
	orders, err := r.FindOrders(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orderItems, itemsErr := r.FindOrderItems(ctx, orders[i].OrderID)
		if itemsErr != nil {
			return nil, itemsErr
		}

		orders[i].Items = orderItems
	}

	return orders, nil
}

// FindOrderDtosOptimized produces exactly the same report as
// FindOrderDtos with a fixed query count: one query for the orders, one
// IN-list query for all their order lines, grouped in memory by order
// identity. Orders without lines keep their empty Items slice.
func (r *OrderQueryRepository) FindOrderDtosOptimized(ctx context.Context) ([]OrderQueryDto, error) {
	orders, err := r.FindOrders(ctx)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}

	orderIDs := make([]int64, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.OrderID)
	}

	orderItems, itemsErr := r.queryOrderItems(ctx, goqu.I("oi."+colOrderID).In(orderIDs))
	if itemsErr != nil {
		return nil, itemsErr
	}

	itemsByOrderID := make(map[int64][]OrderItemQueryDto)
	for _, orderItem := range orderItems {
		itemsByOrderID[orderItem.OrderID] = append(itemsByOrderID[orderItem.OrderID], orderItem)
	}

	for i := range orders {
		if group, ok := itemsByOrderID[orders[i].OrderID]; ok {
			orders[i].Items = group
		}
	}

	return orders, nil
}

func (r *OrderQueryRepository) queryOrderItems(
	ctx context.Context,
	where goqu.Expression,
) ([]OrderItemQueryDto, error) {

	selectStmt := r.store.builder().
		From(goqu.T(r.store.table(tableOrderItems)).As("oi")).
		Join(
			goqu.T(r.store.table(tableItems)).As("i"),
			goqu.On(goqu.I("oi."+colItemID).Eq(goqu.I("i."+colItemID))),
		).
		Select(
			goqu.I("oi."+colOrderID), goqu.I("i."+colName),
			goqu.I("oi."+colOrderPrice), goqu.I("oi."+colCount),
		).
		Where(where).
		Order(goqu.I("oi." + colOrderItemID).Asc())

	sqlQuery, args, toSQLErr := selectStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		r.store.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, opFindOrderItemDtos)
		return nil, errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := r.store.query(ctx, r.session, opFindOrderItemDtos, sqlQuery, args)
	if queryErr != nil {
		return nil, queryErr
	}
	defer r.store.closeRows(ctx, rows)

	orderItems := make([]OrderItemQueryDto, 0)

	for rows.Next() {
		var orderItem OrderItemQueryDto

		scanErr := rows.Scan(&orderItem.OrderID, &orderItem.ItemName, &orderItem.OrderPrice, &orderItem.Count)
		if scanErr != nil {
			r.store.logError(ctx, logMsgScanRowFailed, scanErr, logAttrOperation, opFindOrderItemDtos)
			return nil, errors.Join(shop.ErrScanningRowFailed, scanErr)
		}

		orderItems = append(orderItems, orderItem)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(shop.ErrQueryingFailed, rowsErr)
	}

	return orderItems, nil
}
