package domain

type Venue struct {
	Name      string
	Type      *string
	Capacity  *int
	Address   *string
	Equipment string
	Price     *string
	ImageURL  *string
	Photos    []string // ordered photo-reference tokens
	PlaceID   string
	Composite string // raw labeled block the sub-fields were read from
}

// ActivityCatalog keeps categories and their activities in insertion order.
type ActivityCatalog struct {
	order []string
	items map[string][]string
}

func NewActivityCatalog() *ActivityCatalog {
	return &ActivityCatalog{items: map[string][]string{}}
}

// StartCategory establishes (or re-establishes) a category with an empty list.
// A restarted category keeps its original position.
func (c *ActivityCatalog) StartCategory(name string) {
	if _, ok := c.items[name]; !ok {
		c.order = append(c.order, name)
	}
	c.items[name] = []string{}
}

func (c *ActivityCatalog) Add(category, activity string) bool {
	if _, ok := c.items[category]; !ok {
		return false
	}
	c.items[category] = append(c.items[category], activity)
	return true
}

func (c *ActivityCatalog) Categories() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *ActivityCatalog) Activities(category string) []string {
	if c == nil {
		return nil
	}
	src := c.items[category]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func (c *ActivityCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

type ActivityCategory struct {
	Name       string   `json:"name"`
	Activities []string `json:"activities"`
}

// Ordered returns the catalog as a slice so JSON encoding preserves order.
func (c *ActivityCatalog) Ordered() []ActivityCategory {
	out := make([]ActivityCategory, 0, c.Len())
	for _, name := range c.Categories() {
		out = append(out, ActivityCategory{Name: name, Activities: c.Activities(name)})
	}
	return out
}
