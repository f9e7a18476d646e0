package domain

import "sort"

// ResellerSet is the fixed set of customer numbers that are excluded from the
// journey analysis and counted with contract-level logic instead. It is an
// immutable value passed into every computation that needs it, so different
// configurations can coexist.
type ResellerSet struct {
	names map[int]string
}

// NewResellerSet builds a ResellerSet from customer number to display name.
// The input map is copied.
func NewResellerSet(names map[int]string) ResellerSet {
	copied := make(map[int]string, len(names))
	for id, name := range names {
		copied[id] = name
	}
	return ResellerSet{names: copied}
}

// Contains reports whether the customer number belongs to a reseller.
func (r ResellerSet) Contains(customerID int) bool {
	_, ok := r.names[customerID]
	return ok
}

// Name returns the display name of a reseller customer.
func (r ResellerSet) Name(customerID int) (string, bool) {
	name, ok := r.names[customerID]
	return name, ok
}

// IDs returns the reseller customer numbers in ascending order.
func (r ResellerSet) IDs() []int {
	ids := make([]int, 0, len(r.names))
	for id := range r.names {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of configured resellers.
func (r ResellerSet) Len() int {
	return len(r.names)
}

// Reseller pairs a reseller customer number with its display name.
type Reseller struct {
	CustomerID int    `json:"customer_id"`
	Name       string `json:"name"`
}

// List returns the resellers ordered by customer number.
func (r ResellerSet) List() []Reseller {
	list := make([]Reseller, 0, len(r.names))
	for _, id := range r.IDs() {
		list = append(list, Reseller{CustomerID: id, Name: r.names[id]})
	}
	return list
}
