package domain

// BasketItem is one catalog item plus its selected quantity. Quantity is
// always at least 1; entries that would drop to zero are removed instead.
type BasketItem struct {
	Product
	Quantity int
}

// LineTotal returns the price contribution of this entry.
func (i BasketItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Basket is the ordered list of basket entries. At most one entry exists per
// product identifier; first-seen insertion order is preserved across merges.
// All transitions are pure: they return a new slice and never mutate the
// receiver, so snapshots handed to callers stay stable.
type Basket []BasketItem

// Add merges one unit of the product into the basket. An existing entry for
// the same identifier has its quantity incremented; otherwise a new entry is
// appended with quantity 1. Adding is always valid.
func (b Basket) Add(p Product) Basket {
	next := b.Clone()
	for i := range next {
		if next[i].ID == p.ID {
			next[i].Quantity++
			return next
		}
	}
	return append(next, BasketItem{Product: p, Quantity: 1})
}

// Remove takes one unit of the identified product out of the basket. An entry
// at quantity 1 is deleted entirely; an absent identifier is a no-op. The
// result never contains a zero or negative quantity.
func (b Basket) Remove(productID string) Basket {
	next := b.Clone()
	for i := range next {
		if next[i].ID != productID {
			continue
		}
		if next[i].Quantity > 1 {
			next[i].Quantity--
			return next
		}
		return append(next[:i], next[i+1:]...)
	}
	return next
}

// Total sums price*quantity over all entries. Recomputed on demand; cheap
// enough that no caching is warranted.
func (b Basket) Total() int64 {
	var total int64
	for _, item := range b {
		total += item.LineTotal()
	}
	return total
}

// Count sums quantities over all entries. Distinct from len(b): one entry may
// represent several units.
func (b Basket) Count() int {
	count := 0
	for _, item := range b {
		count += item.Quantity
	}
	return count
}

// Clone returns an independent copy of the basket.
func (b Basket) Clone() Basket {
	if len(b) == 0 {
		return Basket{}
	}
	dup := make(Basket, len(b))
	copy(dup, b)
	return dup
}
