package entity

import "time"

// Item is a catalog entry. Price is expressed in minor currency units.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       int64
	ImageURL    string
	Category    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MaxPrice bounds item prices so line subtotals stay within int64.
const MaxPrice int64 = 100_000_000_000

// AllCategories is the category sentinel meaning "no category filter".
const AllCategories = "All"

// ItemFilter narrows catalog listings.
type ItemFilter struct {
	Category   string
	Search     string
	ActiveOnly bool
	Offset     int
	Limit      int
}
