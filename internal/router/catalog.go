package router

// Catalog is the set of loan items the intake service can verify.
type Catalog struct {
	items map[string]struct{}
}

// NewCatalog builds a catalog over ids.
func NewCatalog(ids ...string) *Catalog {
	items := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		items[id] = struct{}{}
	}
	return &Catalog{items: items}
}

// DefaultCatalog returns the built-in vehicle and property catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		"CAR-001", "CAR-002", "CAR-003", "CAR-004", "CAR-005",
		"HOUSE-001", "HOUSE-002", "HOUSE-003", "HOUSE-004", "HOUSE-005",
	)
}

func (c *Catalog) Exists(id string) bool {
	_, ok := c.items[id]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.items)
}
