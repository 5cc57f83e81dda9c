package model

import "time"

type GroceryList struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GroceryItem struct {
	ID          int64      `json:"id"`
	ListID      int64      `json:"list_id"`
	Name        string     `json:"name"`
	Quantity    float64    `json:"quantity"`
	Category    string     `json:"category"`
	Notes       string     `json:"notes"`
	IsPurchased bool       `json:"is_purchased"`
	PurchasedAt *time.Time `json:"purchased_at"`
	PurchasedBy *int64     `json:"purchased_by"`
	AddedBy     *int64     `json:"added_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CategoryLabel returns the display name for the item's category slug.
func (i *GroceryItem) CategoryLabel() string {
	return CategoryLabel(i.Category)
}

// Grocery item category slugs.
const (
	CategoryProduce   = "produce"
	CategoryDairy     = "dairy"
	CategoryMeat      = "meat"
	CategoryBakery    = "bakery"
	CategoryFrozen    = "frozen"
	CategoryPantry    = "pantry"
	CategoryBeverages = "beverages"
	CategorySnacks    = "snacks"
	CategoryHousehold = "household"
	CategoryPersonal  = "personal"
	CategoryOther     = "other"
)

var categoryLabels = map[string]string{
	CategoryProduce:   "Produce",
	CategoryDairy:     "Dairy",
	CategoryMeat:      "Meat & Seafood",
	CategoryBakery:    "Bakery",
	CategoryFrozen:    "Frozen",
	CategoryPantry:    "Pantry",
	CategoryBeverages: "Beverages",
	CategorySnacks:    "Snacks",
	CategoryHousehold: "Household",
	CategoryPersonal:  "Personal Care",
	CategoryOther:     "Other",
}

// ValidCategory reports whether slug is one of the known category slugs.
func ValidCategory(slug string) bool {
	_, ok := categoryLabels[slug]
	return ok
}

// CategoryLabel returns the display name for a category slug, or the slug
// itself if it is unknown.
func CategoryLabel(slug string) string {
	if label, ok := categoryLabels[slug]; ok {
		return label
	}
	return slug
}
