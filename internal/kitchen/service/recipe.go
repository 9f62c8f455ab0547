package service

import (
	"context"
	"strings"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
	"github.com/tabletopkitchen/kitchen/pkg/authx"
)

type RecipeService struct {
	Store store.Store
}

// RecipeInput carries the caller-supplied fields of a recipe.
type RecipeInput struct {
	Title       string
	Steps       string
	CookTimeMin int
	Tags        string
	Ingredients []RecipeIngredientInput
}

type RecipeIngredientInput struct {
	Name     string
	Quantity string
}

// RecipeSearch is the caller-facing search request. Zero values mean
// "no constraint" except Page/Size which are normalized.
type RecipeSearch struct {
	Query      string
	MaxTime    *int
	Ingredient string
	Mine       bool
	Page       int
	Size       int
	Sort       store.SortOrder
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Create stores a new recipe owned by the authenticated caller. The recipe
// row and its ingredient lines are written in one transaction so a failed
// ingredient insert never leaves a half-built recipe behind.
func (s *RecipeService) Create(ctx context.Context, in RecipeInput) (domain.Recipe, error) {
	ident, ok := authx.IdentityFrom(ctx)
	if !ok {
		return domain.Recipe{}, authx.ErrUnauthenticated
	}
	if err := validateRecipeInput(in); err != nil {
		return domain.Recipe{}, err
	}

	var id int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		id, err = tx.Recipes().Create(ctx, domain.Recipe{
			OwnerID:     ident.ID,
			Title:       strings.TrimSpace(in.Title),
			Steps:       in.Steps,
			CookTimeMin: in.CookTimeMin,
			Tags:        strings.TrimSpace(in.Tags),
		})
		if err != nil {
			return err
		}
		return addIngredientLines(ctx, tx, id, in.Ingredients)
	})
	if err != nil {
		return domain.Recipe{}, err
	}

	return s.Store.Recipes().GetByID(ctx, id)
}

// GetByID returns a recipe. Reads are open to any authenticated caller,
// not just the owner.
func (s *RecipeService) GetByID(ctx context.Context, id int64) (domain.Recipe, error) {
	return s.Store.Recipes().GetByID(ctx, id)
}

// Search returns one page of recipes matching the request.
func (s *RecipeService) Search(ctx context.Context, req RecipeSearch) (domain.Page[domain.Recipe], error) {
	page, size := normalizePage(req.Page, req.Size)

	f := store.RecipeFilter{
		TitleQuery: req.Query,
		MaxTime:    req.MaxTime,
		Ingredient: req.Ingredient,
		Offset:     page * size,
		Limit:      size,
		Sort:       req.Sort,
	}
	if req.Mine {
		ident, ok := authx.IdentityFrom(ctx)
		if !ok {
			return domain.Page[domain.Recipe]{}, authx.ErrUnauthenticated
		}
		f.OwnerID = &ident.ID
	}

	recipes, total, err := s.Store.Recipes().Search(ctx, f)
	if err != nil {
		return domain.Page[domain.Recipe]{}, err
	}
	return domain.NewPage(recipes, page, size, total), nil
}

// Update replaces a recipe's fields and ingredient lines. Only the owner
// may update.
func (s *RecipeService) Update(ctx context.Context, id int64, in RecipeInput) (domain.Recipe, error) {
	if err := validateRecipeInput(in); err != nil {
		return domain.Recipe{}, err
	}

	existing, err := s.Store.Recipes().GetByID(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	if err := authx.Authorize(ctx, existing.OwnerID); err != nil {
		return domain.Recipe{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Recipes().Update(ctx, domain.Recipe{
			ID:          id,
			Title:       strings.TrimSpace(in.Title),
			Steps:       in.Steps,
			CookTimeMin: in.CookTimeMin,
			Tags:        strings.TrimSpace(in.Tags),
		}); err != nil {
			return err
		}
		// Replace lines wholesale; the payload is small enough that a diff
		// is not worth the complexity.
		if err := tx.Recipes().ClearIngredients(ctx, id); err != nil {
			return err
		}
		return addIngredientLines(ctx, tx, id, in.Ingredients)
	})
	if err != nil {
		return domain.Recipe{}, err
	}

	return s.Store.Recipes().GetByID(ctx, id)
}

// Delete removes a recipe. Only the owner may delete.
func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	existing, err := s.Store.Recipes().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authx.Authorize(ctx, existing.OwnerID); err != nil {
		return err
	}
	return s.Store.Recipes().Delete(ctx, id)
}

func addIngredientLines(ctx context.Context, tx store.Tx, recipeID int64, lines []RecipeIngredientInput) error {
	for _, line := range lines {
		ing, err := findOrCreateIngredient(ctx, tx.Ingredients(), line.Name)
		if err != nil {
			return err
		}
		if err := tx.Recipes().AddIngredient(ctx, recipeID, ing.ID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func validateRecipeInput(in RecipeInput) error {
	if strings.TrimSpace(in.Title) == "" || in.CookTimeMin < 0 {
		return ErrInvalidInput
	}
	return nil
}

func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
