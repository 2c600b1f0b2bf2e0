package shop

// OrderItem is a snapshot of one ordered item: the price at order time
// and the ordered count. It is created once at order placement and is
// immutable afterwards except through order cancellation, which restores
// the ordered count back to the item's stock.
type OrderItem struct {
	ID         int64
	Item       *Item
	Order      *Order
	OrderPrice int64
	Count      int64
}

// BuildOrderItem creates the snapshot for one order line and removes the
// ordered count from the item's stock. The stock check and the decrement
// happen before any write is issued; callers must run this inside the
// same unit of work that persists the order so concurrent writers are
// serialized by the storage engine.
func BuildOrderItem(item *Item, orderPrice int64, count int64) (*OrderItem, error) {
	if err := item.RemoveStock(count); err != nil {
		return nil, err
	}

	return &OrderItem{
		Item:       item,
		OrderPrice: orderPrice,
		Count:      count,
	}, nil
}

// TotalPrice is the line total, price at order time times ordered count.
func (oi *OrderItem) TotalPrice() int64 {
	return oi.OrderPrice * oi.Count
}

// cancel restores the ordered count back to the item's stock.
func (oi *OrderItem) cancel() {
	oi.Item.AddStock(oi.Count)
}
