package domain

import "time"

type Recipe struct {
	ID          int64
	OwnerID     int64
	Title       string
	Steps       string
	CookTimeMin int
	Tags        string // comma separated
	Ingredients []RecipeIngredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeIngredient is one line of a recipe: an ingredient plus a free-form
// quantity ("200g", "2 cups").
type RecipeIngredient struct {
	IngredientID int64
	Name         string
	Quantity     string
}
