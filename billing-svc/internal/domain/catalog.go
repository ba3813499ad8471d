package domain

// Catalog is the fixed menu. Built once at startup, read-only afterwards;
// display order is the insertion order.
type Catalog struct {
	items map[string]MenuItem
	order []string
}

func NewCatalog(items []MenuItem) *Catalog {
	c := &Catalog{items: make(map[string]MenuItem, len(items))}
	for _, item := range items {
		if _, exists := c.items[item.ID]; exists {
			continue
		}
		c.items[item.ID] = item
		c.order = append(c.order, item.ID)
	}
	return c
}

// DefaultCatalog is the counter's menu.
func DefaultCatalog() *Catalog {
	return NewCatalog([]MenuItem{
		{ID: "idli", Name: "Idli", Price: 6},
		{ID: "dosa", Name: "Dosa", Price: 25},
		{ID: "vada", Name: "Vada", Price: 7},
		{ID: "poori", Name: "Poori", Price: 60},
		{ID: "pongal", Name: "Pongal", Price: 80},
		{ID: "tea", Name: "Tea", Price: 20},
		{ID: "coffee", Name: "Coffee", Price: 35},
	})
}

func (c *Catalog) Get(id string) (MenuItem, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *Catalog) Items() []MenuItem {
	items := make([]MenuItem, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.items[id])
	}
	return items
}

func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

func (c *Catalog) Len() int { return len(c.order) }
