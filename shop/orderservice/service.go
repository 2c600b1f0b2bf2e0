// Package orderservice orchestrates order placement, cancellation, and
// order search on top of the storage engine. Every mutating operation
// runs inside one unit of work: the stock check, the stock write, and
// the order writes either all commit or all roll back.
package orderservice

import (
	"context"
	"time"

	"github.com/shoplab/ordershop-go/shop"
	"github.com/shoplab/ordershop-go/shop/sqlengine"
)

// Service is the order use-case layer. The zero value is not usable;
// construct it with NewService.
type Service struct {
	store *sqlengine.Store
	now   func() time.Time
}

// ServiceOption defines a functional option for configuring a Service.
type ServiceOption func(*Service)

// WithClock replaces the order-date clock, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service on top of the given store.
func NewService(store *sqlengine.Store, options ...ServiceOption) *Service {
	service := &Service{
		store: store,
		now:   time.Now,
	}

	for _, option := range options {
		option(service)
	}

	return service
}

// PlaceOrder places an order of the given count of one item for one
// member and returns the new order's identity.
//
// The item row is locked before the stock check so that concurrent
// placements against the same item are serialized; an insufficient
// stock fails the whole unit of work with an error that unwraps to
// shop.ErrOutOfStock, leaving the stock untouched.
func (s *Service) PlaceOrder(ctx context.Context, memberID int64, itemID int64, count int64) (int64, error) {
	var orderID int64

	err := s.store.ExecuteInTx(ctx, func(ctx context.Context, uow *sqlengine.UnitOfWork) error {
		member, findMemberErr := uow.Members().FindOne(ctx, memberID)
		if findMemberErr != nil {
			return findMemberErr
		}
		if member == nil {
			return shop.ErrMemberNotFound
		}

		item, findItemErr := uow.Items().FindOneForUpdate(ctx, itemID)
		if findItemErr != nil {
			return findItemErr
		}
		if item == nil {
			return shop.ErrItemNotFound
		}

		orderItem, buildErr := shop.BuildOrderItem(item, item.Price, count)
		if buildErr != nil {
			return buildErr
		}

		delivery := shop.BuildDelivery(member.Address)
		order := shop.BuildOrder(member, delivery, s.now(), orderItem)

		if saveErr := uow.Orders().Save(ctx, order); saveErr != nil {
			return saveErr
		}

		if stockErr := uow.Items().UpdateStock(ctx, item); stockErr != nil {
			return stockErr
		}

		orderID = order.ID

		return nil
	})
	if err != nil {
		return 0, err
	}

	return orderID, nil
}

// CancelOrder cancels the given order, flipping it to CANCELED and
// restoring the ordered count of every order line back to its item's
// stock. Cancelling an unknown order fails with shop.ErrOrderNotFound;
// an already canceled order with shop.ErrOrderAlreadyCanceled; an order
// whose delivery completed with shop.ErrDeliveryAlreadyCompleted.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) error {
	return s.store.ExecuteInTx(ctx, func(ctx context.Context, uow *sqlengine.UnitOfWork) error {
		order, findErr := uow.Orders().FindOne(ctx, orderID)
		if findErr != nil {
			return findErr
		}
		if order == nil {
			return shop.ErrOrderNotFound
		}

		if cancelErr := order.Cancel(); cancelErr != nil {
			return cancelErr
		}

		// Restock against freshly locked rows: the line items were read
		// without a lock, another writer may have moved the counters since.
		for _, orderItem := range order.OrderItems {
			item, findItemErr := uow.Items().FindOneForUpdate(ctx, orderItem.Item.ID)
			if findItemErr != nil {
				return findItemErr
			}
			if item == nil {
				return shop.ErrItemNotFound
			}

			item.AddStock(orderItem.Count)

			if stockErr := uow.Items().UpdateStock(ctx, item); stockErr != nil {
				return stockErr
			}
		}

		return uow.Orders().UpdateStatus(ctx, order)
	})
}

// FindOrders searches orders by the given criteria.
func (s *Service) FindOrders(ctx context.Context, search sqlengine.OrderSearch) ([]*shop.Order, error) {
	return s.store.Orders().Search(ctx, search)
}
