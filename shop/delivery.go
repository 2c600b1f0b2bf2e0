package shop

// DeliveryStatus is the lifecycle state of a delivery.
type DeliveryStatus string

const (
	DeliveryReady     DeliveryStatus = "READY"
	DeliveryCompleted DeliveryStatus = "COMPLETED"
)

// Delivery is owned exclusively by one Order; its lifecycle cascades
// with the order's. The back-reference to the order is maintained by
// Order.SetDelivery.
type Delivery struct {
	ID      int64
	Address Address
	Status  DeliveryStatus
	Order   *Order
}

// BuildDelivery is a factory method for Delivery in the READY state.
func BuildDelivery(address Address) *Delivery {
	return &Delivery{
		Address: address,
		Status:  DeliveryReady,
	}
}
