package service

import (
	"context"
	"strings"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
	"github.com/tabletopkitchen/kitchen/pkg/authx"
)

type PantryService struct {
	Store store.Store
}

// PantryInput carries the caller-supplied fields of a pantry item.
type PantryInput struct {
	Ingredient string
	Amount     string
	ExpiresOn  *time.Time
}

// PantryList is the caller-facing list request for a user's pantry.
type PantryList struct {
	Ingredient string
	ExpFrom    *time.Time
	ExpTo      *time.Time
	Page       int
	Size       int
	Sort       store.SortOrder
}

// Add creates a pantry item for the authenticated caller, creating the
// ingredient row on first use.
func (s *PantryService) Add(ctx context.Context, in PantryInput) (domain.PantryItem, error) {
	ident, ok := authx.IdentityFrom(ctx)
	if !ok {
		return domain.PantryItem{}, authx.ErrUnauthenticated
	}
	if strings.TrimSpace(in.Amount) == "" {
		return domain.PantryItem{}, ErrInvalidInput
	}

	var id int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		ing, err := findOrCreateIngredient(ctx, tx.Ingredients(), in.Ingredient)
		if err != nil {
			return err
		}
		id, err = tx.Pantry().Create(ctx, domain.PantryItem{
			UserID:       ident.ID,
			IngredientID: ing.ID,
			Amount:       strings.TrimSpace(in.Amount),
			ExpiresOn:    in.ExpiresOn,
		})
		return err
	})
	if err != nil {
		return domain.PantryItem{}, err
	}

	return s.Store.Pantry().GetByID(ctx, id)
}

// List returns one page of the caller's own pantry. Pantry items are never
// visible across users, so the user id always comes from the identity.
func (s *PantryService) List(ctx context.Context, req PantryList) (domain.Page[domain.PantryItem], error) {
	ident, ok := authx.IdentityFrom(ctx)
	if !ok {
		return domain.Page[domain.PantryItem]{}, authx.ErrUnauthenticated
	}

	page, size := normalizePage(req.Page, req.Size)
	items, total, err := s.Store.Pantry().List(ctx, store.PantryFilter{
		UserID:     ident.ID,
		Ingredient: req.Ingredient,
		ExpFrom:    req.ExpFrom,
		ExpTo:      req.ExpTo,
		Offset:     page * size,
		Limit:      size,
		Sort:       req.Sort,
	})
	if err != nil {
		return domain.Page[domain.PantryItem]{}, err
	}
	return domain.NewPage(items, page, size, total), nil
}

// Get returns a single pantry item. Only the owner may read it.
func (s *PantryService) Get(ctx context.Context, id int64) (domain.PantryItem, error) {
	item, err := s.Store.Pantry().GetByID(ctx, id)
	if err != nil {
		return domain.PantryItem{}, err
	}
	if err := authx.Authorize(ctx, item.UserID); err != nil {
		return domain.PantryItem{}, err
	}
	return item, nil
}

// Update rewrites amount and expiry of a pantry item. Only the owner may
// update.
func (s *PantryService) Update(ctx context.Context, id int64, in PantryInput) (domain.PantryItem, error) {
	if strings.TrimSpace(in.Amount) == "" {
		return domain.PantryItem{}, ErrInvalidInput
	}

	existing, err := s.Store.Pantry().GetByID(ctx, id)
	if err != nil {
		return domain.PantryItem{}, err
	}
	if err := authx.Authorize(ctx, existing.UserID); err != nil {
		return domain.PantryItem{}, err
	}

	existing.Amount = strings.TrimSpace(in.Amount)
	existing.ExpiresOn = in.ExpiresOn
	if err := s.Store.Pantry().Update(ctx, existing); err != nil {
		return domain.PantryItem{}, err
	}
	return s.Store.Pantry().GetByID(ctx, id)
}

// Delete removes a pantry item. Only the owner may delete.
func (s *PantryService) Delete(ctx context.Context, id int64) error {
	existing, err := s.Store.Pantry().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authx.Authorize(ctx, existing.UserID); err != nil {
		return err
	}
	return s.Store.Pantry().Delete(ctx, id)
}
