package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
)

// findOrCreateIngredient resolves an ingredient name to its row, creating it
// on first use. Lookups are case-insensitive so "Flour" and "flour" share a
// row. A concurrent create racing us surfaces as ErrAlreadyExists, in which
// case the second lookup wins.
func findOrCreateIngredient(ctx context.Context, ingredients store.Ingredients, name string) (domain.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Ingredient{}, ErrInvalidInput
	}

	ing, err := ingredients.GetByName(ctx, name)
	if err == nil {
		return ing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Ingredient{}, err
	}

	id, err := ingredients.Create(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ingredients.GetByName(ctx, name)
		}
		return domain.Ingredient{}, err
	}
	return domain.Ingredient{ID: id, Name: name}, nil
}
