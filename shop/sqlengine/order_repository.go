package sqlengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/shoplab/ordershop-go/shop"
	"github.com/shoplab/ordershop-go/shop/sqlengine/internal/adapters"
)

const (
	opSaveDelivery      = "save_delivery"
	opSaveOrder         = "save_order"
	opSaveOrderItem     = "save_order_item"
	opFindOrder         = "find_order"
	opFindOrderLines    = "find_order_lines"
	opUpdateOrderStatus = "update_order_status"
	opSearchOrders      = "search_orders"
)

// maxSearchResults caps Search result sets, matching the behavior of the
// presentation layer this repository serves.
const maxSearchResults = 1000

// OrderSearch holds the dynamic criteria for OrderRepository.Search.
// Zero values mean "no restriction".
type OrderSearch struct {
	MemberName string           // substring match on the member's name
	Status     shop.OrderStatus // exact match on the order status
	Limit      uint             // defaults to maxSearchResults
}

// OrderRepository persists the order aggregate (order, delivery, order
// items) and materializes it back as a fully linked object graph.
type OrderRepository struct {
	store   *Store
	session adapters.DBSession
}

// Save inserts the order together with its owned delivery and order
// items; generated identities are assigned to all of them. The member
// must already be saved. Callers run this inside a unit of work so a
// failure in any insert rolls back the whole aggregate.
func (r *OrderRepository) Save(ctx context.Context, order *shop.Order) error {
	if err := r.saveDelivery(ctx, order.Delivery); err != nil {
		return err
	}

	insertStmt := r.store.builder().
		Insert(r.store.table(tableOrders)).
		Rows(goqu.Record{
			colMemberID:   order.Member.ID,
			colDeliveryID: order.Delivery.ID,
			colOrderDate:  order.OrderDate,
			colStatus:     string(order.Status),
		})

	orderID, err := r.store.insertReturningID(ctx, r.session, opSaveOrder, insertStmt, colOrderID)
	if err != nil {
		return err
	}

	order.ID = orderID

	for _, orderItem := range order.OrderItems {
		if err := r.saveOrderItem(ctx, orderID, orderItem); err != nil {
			return err
		}
	}

	return nil
}

// FindOne materializes the full order graph (order, member, delivery,
// order items with their items) for the given identity, or nil when no
// such order exists. The graph is hand-assembled from two queries: one
// join over the to-one relations and one join over the order lines.
func (r *OrderRepository) FindOne(ctx context.Context, id int64) (*shop.Order, error) {
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
			goqu.I("o."+colOrderID), goqu.I("o."+colOrderDate), goqu.I("o."+colStatus),
			goqu.I("m."+colMemberID), goqu.I("m."+colName),
			goqu.I("m."+colCity), goqu.I("m."+colStreet), goqu.I("m."+colZipcode),
			goqu.I("d."+colDeliveryID), goqu.I("d."+colStatus),
			goqu.I("d."+colCity), goqu.I("d."+colStreet), goqu.I("d."+colZipcode),
		).
		Where(goqu.I("o." + colOrderID).Eq(id))

	sqlQuery, args, toSQLErr := selectStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		r.store.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, opFindOrder)
		return nil, errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := r.store.query(ctx, r.session, opFindOrder, sqlQuery, args)
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

	order := &shop.Order{}
	member := &shop.Member{}
	delivery := &shop.Delivery{}

	var orderStatus, deliveryStatus string

	scanErr := rows.Scan(
		&order.ID, &order.OrderDate, &orderStatus,
		&member.ID, &member.Name,
		&member.Address.City, &member.Address.Street, &member.Address.Zipcode,
		&delivery.ID, &deliveryStatus,
		&delivery.Address.City, &delivery.Address.Street, &delivery.Address.Zipcode,
	)
	if scanErr != nil {
		r.store.logError(ctx, logMsgScanRowFailed, scanErr, logAttrOperation, opFindOrder)
		return nil, errors.Join(shop.ErrScanningRowFailed, scanErr)
	}

	order.Status = shop.OrderStatus(orderStatus)
	delivery.Status = shop.DeliveryStatus(deliveryStatus)
	order.SetMember(member)
	order.SetDelivery(delivery)

	if err := r.loadOrderLines(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateStatus writes the order's current status back to storage.
func (r *OrderRepository) UpdateStatus(ctx context.Context, order *shop.Order) error {
	updateStmt := r.store.builder().
		Update(r.store.table(tableOrders)).
		Set(goqu.Record{colStatus: string(order.Status)}).
		Where(goqu.Ex{colOrderID: order.ID})

	sqlQuery, args, toSQLErr := updateStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		r.store.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, opUpdateOrderStatus)
		return errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := r.store.exec(ctx, r.session, opUpdateOrderStatus, sqlQuery, args)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return shop.ErrOrderNotFound
	}

	return nil
}

// Search returns order summaries (order plus member, no delivery and no
// order lines) matching the given criteria, ordered by order identity
// ascending. Callers that need the full graph follow up with FindOne.
func (r *OrderRepository) Search(ctx context.Context, search OrderSearch) ([]*shop.Order, error) {
	limit := search.Limit
	if limit == 0 {
		limit = maxSearchResults
	}

	selectStmt := r.store.builder().
		From(goqu.T(r.store.table(tableOrders)).As("o")).
		Join(
			goqu.T(r.store.table(tableMembers)).As("m"),
			goqu.On(goqu.I("o."+colMemberID).Eq(goqu.I("m."+colMemberID))),
		).
		Select(
			goqu.I("o."+colOrderID), goqu.I("o."+colOrderDate), goqu.I("o."+colStatus),
			goqu.I("m."+colMemberID), goqu.I("m."+colName),
			goqu.I("m."+colCity), goqu.I("m."+colStreet), goqu.I("m."+colZipcode),
		).
		Order(goqu.I("o." + colOrderID).Asc()).
		Limit(limit)

	if search.MemberName != "" {
		selectStmt = selectStmt.Where(goqu.I("m." + colName).Like("%" + search.MemberName + "%"))
	}

	if search.Status != "" {
		selectStmt = selectStmt.Where(goqu.I("o." + colStatus).Eq(string(search.Status)))
	}

	sqlQuery, args, toSQLErr := selectStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		r.store.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, opSearchOrders)
		return nil, errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := r.store.query(ctx, r.session, opSearchOrders, sqlQuery, args)
	if queryErr != nil {
		return nil, queryErr
	}
	defer r.store.closeRows(ctx, rows)

	orders := make([]*shop.Order, 0)

	for rows.Next() {
		order := &shop.Order{}
		member := &shop.Member{}

		var orderStatus string

		scanErr := rows.Scan(
			&order.ID, &order.OrderDate, &orderStatus,
			&member.ID, &member.Name,
			&member.Address.City, &member.Address.Street, &member.Address.Zipcode,
		)
		if scanErr != nil {
			r.store.logError(ctx, logMsgScanRowFailed, scanErr, logAttrOperation, opSearchOrders)
			return nil, errors.Join(shop.ErrScanningRowFailed, scanErr)
		}

		order.Status = shop.OrderStatus(orderStatus)
		order.SetMember(member)

		orders = append(orders, order)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(shop.ErrQueryingFailed, rowsErr)
	}

	return orders, nil
}

func (r *OrderRepository) saveDelivery(ctx context.Context, delivery *shop.Delivery) error {
	insertStmt := r.store.builder().
		Insert(r.store.table(tableDeliveries)).
		Rows(goqu.Record{
			colCity:    delivery.Address.City,
			colStreet:  delivery.Address.Street,
			colZipcode: delivery.Address.Zipcode,
			colStatus:  string(delivery.Status),
		})

	id, err := r.store.insertReturningID(ctx, r.session, opSaveDelivery, insertStmt, colDeliveryID)
	if err != nil {
		return err
	}

	delivery.ID = id

	return nil
}

func (r *OrderRepository) saveOrderItem(ctx context.Context, orderID int64, orderItem *shop.OrderItem) error {
	insertStmt := r.store.builder().
		Insert(r.store.table(tableOrderItems)).
		Rows(goqu.Record{
			colOrderID:    orderID,
			colItemID:     orderItem.Item.ID,
			colOrderPrice: orderItem.OrderPrice,
			colCount:      orderItem.Count,
		})

	id, err := r.store.insertReturningID(ctx, r.session, opSaveOrderItem, insertStmt, colOrderItemID)
	if err != nil {
		return err
	}

	orderItem.ID = id

	return nil
}

// loadOrderLines fetches the order's lines joined with their items, in
// placement order, and attaches them through the link helper.
func (r *OrderRepository) loadOrderLines(ctx context.Context, order *shop.Order) error {
	selectStmt := r.store.builder().
		From(goqu.T(r.store.table(tableOrderItems)).As("oi")).
		Join(
			goqu.T(r.store.table(tableItems)).As("i"),
			goqu.On(goqu.I("oi."+colItemID).Eq(goqu.I("i."+colItemID))),
		).
		Select(
			goqu.I("oi."+colOrderItemID), goqu.I("oi."+colOrderPrice), goqu.I("oi."+colCount),
			goqu.I("i."+colItemID), goqu.I("i."+colName), goqu.I("i."+colPrice), goqu.I("i."+colStockQuantity),
		).
		Where(goqu.I("oi." + colOrderID).Eq(order.ID)).
		Order(goqu.I("oi." + colOrderItemID).Asc())

	sqlQuery, args, toSQLErr := selectStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		r.store.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, opFindOrderLines)
		return errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := r.store.query(ctx, r.session, opFindOrderLines, sqlQuery, args)
	if queryErr != nil {
		return queryErr
	}
	defer r.store.closeRows(ctx, rows)

	for rows.Next() {
		item := &shop.Item{}
		orderItem := &shop.OrderItem{Item: item}

		scanErr := rows.Scan(
			&orderItem.ID, &orderItem.OrderPrice, &orderItem.Count,
			&item.ID, &item.Name, &item.Price, &item.StockQuantity,
		)
		if scanErr != nil {
			r.store.logError(ctx, logMsgScanRowFailed, scanErr, logAttrOperation, opFindOrderLines)
			return errors.Join(shop.ErrScanningRowFailed, scanErr)
		}

		order.AddOrderItem(orderItem)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return errors.Join(shop.ErrQueryingFailed, rowsErr)
	}

	return nil
}
