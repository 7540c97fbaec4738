package domain

// Item is a single product line in a shopper's cart. UnitAmount is the
// price snapshot taken when the product was first added, in minor
// currency units (pesewas). A repeat add does not refresh the snapshot.
type Item struct {
	ProductID  string `json:"id"`
	Name       string `json:"name"`
	UnitAmount int64  `json:"price"`
	ImageURL   string `json:"image_url"`
	Quantity   int    `json:"quantity"`
}

// Cart holds the pre-order selection for one device key. At most one
// Item per ProductID.
type Cart struct {
	Key   string `json:"-"`
	Items []Item `json:"items"`
}

// ProductSnapshot carries the catalog fields captured into a cart line
// on add.
type ProductSnapshot struct {
	ID         string
	Name       string
	UnitAmount int64
	ImageURL   string
}

// Add merges the product into the cart: an existing line keeps its
// stored name/price/image and gains quantity 1, otherwise a new line
// with quantity 1 is appended.
func (c *Cart) Add(p ProductSnapshot) {
	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, Item{
		ProductID:  p.ID,
		Name:       p.Name,
		UnitAmount: p.UnitAmount,
		ImageURL:   p.ImageURL,
		Quantity:   1,
	})
}

// Remove deletes the line for productID. Absent lines are a no-op.
func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// SetQuantity clamps quantity at zero and updates the matching line.
// A zero-quantity line stays in the cart; callers must Remove it
// explicitly.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Subtotal sums unit price times quantity across all lines, in minor
// units.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.UnitAmount * int64(it.Quantity)
	}
	return total
}

// Size reports the number of distinct lines.
func (c Cart) Size() int {
	return len(c.Items)
}
