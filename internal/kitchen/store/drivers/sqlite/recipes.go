package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
)

type recipesRepo struct {
	q dbtx
}

const recipeColumns = `r.id, r.owner_id, r.title, r.steps, r.cook_time_min, r.tags, r.created_at, r.updated_at`

var recipeSortColumns = map[string]string{
	"id":          "r.id",
	"title":       "r.title",
	"cookTimeMin": "r.cook_time_min",
	"createdAt":   "r.created_at",
}

func (r *recipesRepo) Create(ctx context.Context, rec domain.Recipe) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO recipes (owner_id, title, steps, cook_time_min, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.OwnerID, rec.Title, rec.Steps, rec.CookTimeMin, rec.Tags, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *recipesRepo) AddIngredient(ctx context.Context, recipeID, ingredientID int64, quantity string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity) VALUES (?, ?, ?)`,
		recipeID, ingredientID, quantity)
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *recipesRepo) ClearIngredients(ctx context.Context, recipeID int64) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipeID)
	return err
}

func (r *recipesRepo) GetByID(ctx context.Context, id int64) (domain.Recipe, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes r WHERE r.id = ?`, id)

	var rec domain.Recipe
	err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Title, &rec.Steps,
		&rec.CookTimeMin, &rec.Tags, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return domain.Recipe{}, mapNotFound(err)
	}

	if rec.Ingredients, err = r.loadIngredients(ctx, rec.ID); err != nil {
		return domain.Recipe{}, err
	}
	return rec, nil
}

func (r *recipesRepo) Search(ctx context.Context, f store.RecipeFilter) ([]domain.Recipe, int64, error) {
	where, args := recipeWhere(f)

	var total int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipes r`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := orderClause(f.Sort, recipeSortColumns, "r.created_at DESC")
	query := `SELECT ` + recipeColumns + ` FROM recipes r` + where +
		` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	rows, err := r.q.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recipes []domain.Recipe
	for rows.Next() {
		var rec domain.Recipe
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Title, &rec.Steps,
			&rec.CookTimeMin, &rec.Tags, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, 0, err
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range recipes {
		if recipes[i].Ingredients, err = r.loadIngredients(ctx, recipes[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return recipes, total, nil
}

func (r *recipesRepo) Update(ctx context.Context, rec domain.Recipe) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE recipes SET title = ?, steps = ?, cook_time_min = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		rec.Title, rec.Steps, rec.CookTimeMin, rec.Tags, time.Now().UTC(), rec.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *recipesRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *recipesRepo) loadIngredients(ctx context.Context, recipeID int64) ([]domain.RecipeIngredient, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT ri.ingredient_id, i.name, ri.quantity
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = ?
		 ORDER BY i.name`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RecipeIngredient
	for rows.Next() {
		var ri domain.RecipeIngredient
		if err := rows.Scan(&ri.IngredientID, &ri.Name, &ri.Quantity); err != nil {
			return nil, err
		}
		out = append(out, ri)
	}
	return out, rows.Err()
}

func recipeWhere(f store.RecipeFilter) (string, []any) {
	var conds []string
	var args []any

	if f.OwnerID != nil {
		conds = append(conds, "r.owner_id = ?")
		args = append(args, *f.OwnerID)
	}
	if q := strings.TrimSpace(f.TitleQuery); q != "" {
		conds = append(conds, "lower(r.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q)+"%")
	}
	if f.MaxTime != nil {
		conds = append(conds, "r.cook_time_min <= ?")
		args = append(args, *f.MaxTime)
	}
	if ing := strings.TrimSpace(f.Ingredient); ing != "" {
		conds = append(conds,
			`r.id IN (SELECT ri.recipe_id FROM recipe_ingredients ri
			          JOIN ingredients i ON i.id = ri.ingredient_id
			          WHERE lower(i.name) LIKE ?)`)
		args = append(args, "%"+strings.ToLower(ing)+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
