package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
)

type pantryRepo struct {
	q dbtx
}

const pantryColumns = `p.id, p.user_id, p.ingredient_id, i.name, p.amount, p.expires_on, p.created_at, p.updated_at`

var pantrySortColumns = map[string]string{
	"id":        "p.id",
	"expiresOn": "p.expires_on",
	"createdAt": "p.created_at",
}

func (r *pantryRepo) Create(ctx context.Context, item domain.PantryItem) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO pantry_items (user_id, ingredient_id, amount, expires_on, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.UserID, item.IngredientID, item.Amount, mapDateNull(item.ExpiresOn), now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *pantryRepo) GetByID(ctx context.Context, id int64) (domain.PantryItem, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+pantryColumns+`
		 FROM pantry_items p JOIN ingredients i ON i.id = p.ingredient_id
		 WHERE p.id = ?`, id)
	return scanPantryItem(row)
}

func (r *pantryRepo) List(ctx context.Context, f store.PantryFilter) ([]domain.PantryItem, int64, error) {
	where, args := pantryWhere(f)

	var total int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pantry_items p JOIN ingredients i ON i.id = p.ingredient_id`+where,
		args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := orderClause(f.Sort, pantrySortColumns, "p.id DESC")
	query := `SELECT ` + pantryColumns +
		` FROM pantry_items p JOIN ingredients i ON i.id = p.ingredient_id` + where +
		` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	rows, err := r.q.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectPantryItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *pantryRepo) Update(ctx context.Context, item domain.PantryItem) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE pantry_items SET amount = ?, expires_on = ?, updated_at = ? WHERE id = ?`,
		item.Amount, mapDateNull(item.ExpiresOn), time.Now().UTC(), item.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *pantryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM pantry_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *pantryRepo) FindExpiring(ctx context.Context, from, to time.Time) ([]domain.PantryItem, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+pantryColumns+`
		 FROM pantry_items p JOIN ingredients i ON i.id = p.ingredient_id
		 WHERE p.expires_on IS NOT NULL AND p.expires_on >= ? AND p.expires_on <= ?
		 ORDER BY p.user_id, p.expires_on`,
		from.UTC().Format(dateLayout), to.UTC().Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPantryItems(rows)
}

func scanPantryItem(row rowScanner) (domain.PantryItem, error) {
	var item domain.PantryItem
	var exp sql.NullString
	err := row.Scan(&item.ID, &item.UserID, &item.IngredientID, &item.IngredientName,
		&item.Amount, &exp, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return domain.PantryItem{}, mapNotFound(err)
	}
	if item.ExpiresOn, err = mapNullDate(exp); err != nil {
		return domain.PantryItem{}, err
	}
	return item, nil
}

func collectPantryItems(rows *sql.Rows) ([]domain.PantryItem, error) {
	var items []domain.PantryItem
	for rows.Next() {
		item, err := scanPantryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func pantryWhere(f store.PantryFilter) (string, []any) {
	conds := []string{"p.user_id = ?"}
	args := []any{f.UserID}

	if ing := strings.TrimSpace(f.Ingredient); ing != "" {
		conds = append(conds, "lower(i.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(ing)+"%")
	}
	if f.ExpFrom != nil {
		conds = append(conds, "p.expires_on >= ?")
		args = append(args, f.ExpFrom.UTC().Format(dateLayout))
	}
	if f.ExpTo != nil {
		conds = append(conds, "p.expires_on <= ?")
		args = append(args, f.ExpTo.UTC().Format(dateLayout))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}
