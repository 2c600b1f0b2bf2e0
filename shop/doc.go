// Package shop contains the domain model of the order backend: members,
// items and their stock counters, orders with their delivery and order
// lines, and the domain rules that tie them together (stock
// decrement/restore, order status transitions, total price derivation).
//
// The types in this package are plain in-memory records with behavior
// methods. They carry no persistence concerns; storage lives in the
// sqlengine subpackage, which materializes entities from and writes them
// back to a relational store.
//
// Bidirectional associations (Order<->Member, Order<->Delivery,
// Order<->OrderItem) are only ever mutated through the link helpers on
// Order (SetMember, SetDelivery, AddOrderItem), which keep both sides of
// the association consistent in a single call.
package shop
