package shop

import (
	"time"
)

// OrderStatus is the lifecycle state of an order. The only legal
// transition is StatusOrdered -> StatusCanceled.
type OrderStatus string

const (
	StatusOrdered  OrderStatus = "ORDERED"
	StatusCanceled OrderStatus = "CANCELED"
)

// Order is the aggregate root of one purchase: it exclusively owns its
// Delivery and its OrderItems (their lifecycle cascades with the order)
// and holds a non-owning reference to the ordering Member. OrderItems
// keep their placement order.
type Order struct {
	ID         int64
	Member     *Member
	Delivery   *Delivery
	OrderItems []*OrderItem
	OrderDate  time.Time
	Status     OrderStatus
}

// BuildOrder assembles a new order in the ORDERED state, linking the
// member, the delivery, and the order items through the association
// helpers so that both sides of every association stay consistent.
func BuildOrder(member *Member, delivery *Delivery, orderDate time.Time, orderItems ...*OrderItem) *Order {
	order := &Order{
		OrderDate: orderDate,
		Status:    StatusOrdered,
	}

	order.SetMember(member)
	order.SetDelivery(delivery)

	for _, orderItem := range orderItems {
		order.AddOrderItem(orderItem)
	}

	return order
}

// SetMember links the owning member and appends this order to the
// member's order collection, keeping both directions consistent in one
// call.
func (o *Order) SetMember(member *Member) {
	o.Member = member
	member.Orders = append(member.Orders, o)
}

// SetDelivery links the delivery and back-links the delivery to this
// order.
func (o *Order) SetDelivery(delivery *Delivery) {
	o.Delivery = delivery
	delivery.Order = o
}

// AddOrderItem appends an order item and back-links it to this order.
func (o *Order) AddOrderItem(orderItem *OrderItem) {
	o.OrderItems = append(o.OrderItems, orderItem)
	orderItem.Order = o
}

// TotalPrice is the sum of all line totals. It is recomputed on every
// call and never cached or stored.
func (o *Order) TotalPrice() int64 {
	var total int64

	for _, orderItem := range o.OrderItems {
		total += orderItem.TotalPrice()
	}

	return total
}

// Cancel flips the order from ORDERED to CANCELED exactly once and
// restores the ordered count of every order item back to its item's
// stock.
//
// Cancelling an already canceled order returns ErrOrderAlreadyCanceled,
// and an order whose delivery has completed can not be canceled at all.
func (o *Order) Cancel() error {
	if o.Status == StatusCanceled {
		return ErrOrderAlreadyCanceled
	}

	if o.Delivery != nil && o.Delivery.Status == DeliveryCompleted {
		return ErrDeliveryAlreadyCompleted
	}

	o.Status = StatusCanceled

	for _, orderItem := range o.OrderItems {
		orderItem.cancel()
	}

	return nil
}
