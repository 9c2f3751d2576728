package cart

import (
	"strconv"
	"strings"
	"sync"

	"github.com/warungpos/pos-service/internal/model"
)

// Line is one selected product in the cart. Name, unit price and stock are
// snapshots copied at add time; they are not re-fetched when the catalog
// changes later.
type Line struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
}

// LineTotal is unit price x quantity for this line.
func (l Line) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart holds the lines selected for one register session. Lines keep
// insertion order; a product appears at most once.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges by product id: adding an already-present product increases
// its quantity instead of appending a second line. Stock is not validated at
// add time.
func (c *Cart) AddItem(p *model.Product, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
		Stock:     p.Stock,
	})
}

// RemoveItem deletes the line for the product. No-op if absent.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the line's quantity. Negative values are coerced to 0,
// and a zero-quantity line is kept rather than removed.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Deduct removes a previously captured snapshot from the cart. Quantity added
// after the snapshot was taken survives; a fully consumed line is dropped.
func (c *Cart) Deduct(lines []Line) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, snap := range lines {
		for i := range c.lines {
			if c.lines[i].ProductID == snap.ProductID {
				c.lines[i].Quantity -= snap.Quantity
				if c.lines[i].Quantity <= 0 {
					c.lines = append(c.lines[:i], c.lines[i+1:]...)
				}
				break
			}
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Total is recomputed from the lines on every call, never cached.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sum float64
	for _, l := range c.lines {
		sum += l.LineTotal()
	}
	return sum
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// ParseQuantity coerces raw user input into a quantity. A failed parse or a
// negative number yields 0, not an error.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
