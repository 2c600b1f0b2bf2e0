package shop

// Member is a registered customer. The Orders collection is a
// back-reference maintained by Order.SetMember; the authoritative side
// of the association is the order's member reference.
type Member struct {
	ID      int64
	Name    string
	Address Address
	Orders  []*Order
}

// BuildMember is a factory method for Member. The ID is zero until the
// member has been saved through a repository.
func BuildMember(name string, address Address) *Member {
	return &Member{
		Name:    name,
		Address: address,
	}
}
