package catalog

// Category is the closed set of menu sections.
type Category string

const (
	CategoryClassic   Category = "classic"
	CategoryMeat      Category = "meat"
	CategoryChicken   Category = "chicken"
	CategoryVegetable Category = "vegetable"
	CategorySpecial   Category = "special"
)

// Valid reports whether the category belongs to the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryClassic, CategoryMeat, CategoryChicken, CategoryVegetable, CategorySpecial:
		return true
	}
	return false
}

// Product is a sellable menu item. Prices are integers in the smallest
// currency unit. Products are immutable once handed out; updates go through
// the service, which replaces the whole record.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
	Popular     bool     `json:"popular"`
}
