package sqlengine

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/shoplab/ordershop-go/shop"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// OrderQueryDto is the flattened read-only report shape for one order.
// It is rebuilt on every query call and is deliberately a separate type
// from the shop.Order aggregate: the aggregate is mutable and owned, the
// report shape is immutable and disposable.
//
// Items is never nil; an order without order lines carries an empty
// slice so it renders as [] at the presentation boundary.
type OrderQueryDto struct {
	OrderID    int64               `json:"orderId"`
	MemberName string              `json:"memberName"`
	OrderDate  time.Time           `json:"orderDate"`
	Status     shop.OrderStatus    `json:"orderStatus"`
	Address    shop.Address        `json:"address"`
	Items      []OrderItemQueryDto `json:"orderItems"`
}

// OrderItemQueryDto is the flattened read-only report shape for one
// order line.
type OrderItemQueryDto struct {
	OrderID    int64  `json:"orderId"`
	ItemName   string `json:"itemName"`
	OrderPrice int64  `json:"orderPrice"`
	Count      int64  `json:"count"`
}

// EncodeOrderReport renders an order report as JSON for the presentation
// boundary.
func EncodeOrderReport(orders []OrderQueryDto) ([]byte, error) {
	return jsonAPI.Marshal(orders)
}

// DecodeOrderReport parses a JSON order report produced by
// EncodeOrderReport.
func DecodeOrderReport(data []byte) ([]OrderQueryDto, error) {
	var orders []OrderQueryDto

	if err := jsonAPI.Unmarshal(data, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}
