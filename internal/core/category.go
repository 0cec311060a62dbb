package core

// Category is one of the fixed expense classifications.
type Category string

const (
	FoodDining     Category = "Food & Dining"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Entertainment  Category = "Entertainment"
	Healthcare     Category = "Healthcare"
	Utilities      Category = "Utilities"
	Housing        Category = "Housing"
	Education      Category = "Education"
	Travel         Category = "Travel"
	Business       Category = "Business"
	DebtPayment    Category = "Debt Payment"
	Savings        Category = "Savings"
	Investment     Category = "Investment"
	Insurance      Category = "Insurance"
	Taxes          Category = "Taxes"
	Other          Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	FoodDining,
	Transportation,
	Shopping,
	Entertainment,
	Healthcare,
	Utilities,
	Housing,
	Education,
	Travel,
	Business,
	DebtPayment,
	Savings,
	Investment,
	Insurance,
	Taxes,
	Other,
}

var categoryColors = map[Category]string{
	FoodDining:     "#FF6B6B",
	Transportation: "#4ECDC4",
	Shopping:       "#45B7D1",
	Entertainment:  "#96CEB4",
	Healthcare:     "#FFEAA7",
	Utilities:      "#DDA0DD",
	Housing:        "#98D8C8",
	Education:      "#F7DC6F",
	Travel:         "#BB8FCE",
	Business:       "#FF8C42",
	DebtPayment:    "#E74C3C",
	Savings:        "#27AE60",
	Investment:     "#F39C12",
	Insurance:      "#9B59B6",
	Taxes:          "#34495E",
	Other:          "#85C1E9",
}

func (c Category) IsValid() bool {
	_, ok := categoryColors[c]
	return ok
}

// Color returns the chart color for the category, or "" if unknown.
func (c Category) Color() string {
	return categoryColors[c]
}
