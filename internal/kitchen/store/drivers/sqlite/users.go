package sqlite

import (
	"context"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, email, name, password_hash, created_at, updated_at`

func (r *usersRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO users (email, name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.Name, u.PasswordHash, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrAlreadyExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}
