package shop

// Address is the value object used both for a member's home address and
// for the delivery address snapshotted onto an order.
type Address struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

// BuildAddress is a factory method for Address.
func BuildAddress(city, street, zipcode string) Address {
	return Address{
		City:    city,
		Street:  street,
		Zipcode: zipcode,
	}
}
