package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/infrastructure/store"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidProduct   = errors.New("product id is required")
	ErrQuantityTooLarge = errors.New("line quantity too large")
)

// Item is one cart line. Product is the snapshot shown on the bag page.
type Item struct {
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *backend.Product `json:"product,omitempty"`
}

// Cart is the shopping bag of one browser profile. Every mutation is written
// back to the profile under store.KeyCart after the in-memory update.
type Cart struct {
	mu      sync.Mutex
	profile *store.Profile
	logger  *zap.Logger
	items   []Item
	loaded  bool
}

// Open hydrates the cart of profile. A malformed stored cart is logged and
// replaced by an empty one on the next mutation.
func Open(ctx context.Context, profile *store.Profile, logger *zap.Logger) (*Cart, error) {
	c := &Cart{
		profile: profile,
		logger:  logger,
		items:   []Item{},
	}

	var stored []Item
	found, err := profile.GetJSON(ctx, store.KeyCart, &stored)
	switch {
	case err != nil && found:
		logger.Warn("discarding malformed cart",
			zap.String("profile", profile.ID()),
			zap.Error(err),
		)
	case err != nil:
		return nil, fmt.Errorf("load cart: %w", err)
	default:
		c.items = normalize(stored)
	}

	c.loaded = true
	return c, nil
}

// normalize drops invalid lines and merges duplicate product ids
func normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantity < 1 {
			continue
		}
		if i := indexOf(out, it.ProductID); i >= 0 {
			if out[i].Quantity > math.MaxInt-it.Quantity {
				out[i].Quantity = math.MaxInt
			} else {
				out[i].Quantity += it.Quantity
			}
			continue
		}
		out = append(out, it)
	}
	return out
}

func indexOf(items []Item, productID int64) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ProductID == productID })
}

// AddItem increments the line for product or appends a new one
func (c *Cart) AddItem(ctx context.Context, product backend.Product, quantity int) error {
	if product.ID <= 0 {
		return ErrInvalidProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := product
	if i := indexOf(c.items, product.ID); i >= 0 {
		if c.items[i].Quantity > math.MaxInt-quantity {
			return ErrQuantityTooLarge
		}
		c.items[i].Quantity += quantity
		c.items[i].Product = &snapshot
	} else {
		c.items = append(c.items, Item{ProductID: product.ID, Quantity: quantity, Product: &snapshot})
	}
	return c.persist(ctx)
}

// UpdateQuantity sets the quantity exactly; quantity <= 0 removes the line
func (c *Cart) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, productID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := indexOf(c.items, productID)
	if i < 0 {
		return nil
	}
	c.items[i].Quantity = quantity
	return c.persist(ctx)
}

func (c *Cart) RemoveItem(ctx context.Context, productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := indexOf(c.items, productID)
	if i < 0 {
		return nil
	}
	c.items = slices.Delete(c.items, i, i+1)
	return c.persist(ctx)
}

// Clear empties the cart and erases the stored copy
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = []Item{}
	if !c.loaded {
		return nil
	}
	if err := c.profile.Remove(ctx, store.KeyCart); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (c *Cart) persist(ctx context.Context) error {
	if !c.loaded {
		return nil
	}
	if err := c.profile.SetJSON(ctx, store.KeyCart, c.items); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Items returns a copy of the lines in insertion order
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice sums price x quantity; a line without a snapshot counts as 0
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, it := range c.items {
		if it.Product == nil {
			continue
		}
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// OrderLines converts the cart into the lines of a new order
func (c *Cart) OrderLines() []backend.OrderLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]backend.OrderLine, 0, len(c.items))
	for _, it := range c.items {
		lines = append(lines, backend.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}
