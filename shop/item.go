package shop

// Item is a sellable product with a price in minor-unit-free integers
// and a non-negative stock counter. Stock is only ever adjusted through
// AddStock and RemoveStock so the non-negative invariant holds.
type Item struct {
	ID            int64
	Name          string
	Price         int64
	StockQuantity int64
}

// Book is an Item variant carrying book-specific attributes.
type Book struct {
	Item
	Author string
	ISBN   string
}

// BuildBook is a factory method for Book.
func BuildBook(name string, price int64, stockQuantity int64, author string, isbn string) *Book {
	return &Book{
		Item: Item{
			Name:          name,
			Price:         price,
			StockQuantity: stockQuantity,
		},
		Author: author,
		ISBN:   isbn,
	}
}

// AddStock increases the stock counter. No upper bound is enforced.
func (i *Item) AddStock(quantity int64) {
	i.StockQuantity += quantity
}

// RemoveStock decreases the stock counter.
// It returns an *OutOfStockError and leaves the counter unchanged when
// the requested quantity exceeds the available stock. Negative stock is
// never silently corrected.
func (i *Item) RemoveStock(quantity int64) error {
	if quantity > i.StockQuantity {
		return &OutOfStockError{Requested: quantity, Available: i.StockQuantity}
	}

	i.StockQuantity -= quantity

	return nil
}
