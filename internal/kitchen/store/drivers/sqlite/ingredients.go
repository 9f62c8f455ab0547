package sqlite

import (
	"context"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
)

type ingredientsRepo struct {
	q dbtx
}

func (r *ingredientsRepo) GetByName(ctx context.Context, name string) (domain.Ingredient, error) {
	var ing domain.Ingredient
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name FROM ingredients WHERE lower(name) = lower(?)`, name).
		Scan(&ing.ID, &ing.Name)
	if err != nil {
		return domain.Ingredient{}, mapNotFound(err)
	}
	return ing, nil
}

func (r *ingredientsRepo) Create(ctx context.Context, name string) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO ingredients (name) VALUES (?)`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrAlreadyExists
		}
		return 0, err
	}
	return res.LastInsertId()
}
