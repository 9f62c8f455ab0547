package domain

type Ingredient struct {
	ID   int64
	Name string
}
