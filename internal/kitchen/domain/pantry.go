package domain

import "time"

type PantryItem struct {
	ID             int64
	UserID         int64
	IngredientID   int64
	IngredientName string
	Amount         string
	ExpiresOn      *time.Time // date precision; nil means no expiry tracked
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
