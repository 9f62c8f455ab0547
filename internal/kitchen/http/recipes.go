package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/service"
	"github.com/tabletopkitchen/kitchen/pkg/httpx"
	"github.com/tabletopkitchen/kitchen/pkg/slogx"
)

type RecipesHandler struct {
	RecipeService *service.RecipeService
}

type recipeRequest struct {
	Title       string                    `json:"title"`
	Steps       string                    `json:"steps"`
	CookTimeMin int                       `json:"cookTimeMin"`
	Tags        string                    `json:"tags"`
	Ingredients []recipeIngredientRequest `json:"ingredients"`
}

type recipeIngredientRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type recipeResponse struct {
	ID          int64                      `json:"id"`
	OwnerID     int64                      `json:"ownerId"`
	Title       string                     `json:"title"`
	Steps       string                     `json:"steps"`
	CookTimeMin int                        `json:"cookTimeMin"`
	Tags        string                     `json:"tags"`
	Ingredients []recipeIngredientResponse `json:"ingredients"`
	CreatedAt   time.Time                  `json:"createdAt"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}

type recipeIngredientResponse struct {
	IngredientID int64  `json:"ingredientId"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity"`
}

func toRecipeResponse(rec domain.Recipe) recipeResponse {
	ings := make([]recipeIngredientResponse, 0, len(rec.Ingredients))
	for _, ri := range rec.Ingredients {
		ings = append(ings, recipeIngredientResponse{
			IngredientID: ri.IngredientID,
			Name:         ri.Name,
			Quantity:     ri.Quantity,
		})
	}
	return recipeResponse{
		ID:          rec.ID,
		OwnerID:     rec.OwnerID,
		Title:       rec.Title,
		Steps:       rec.Steps,
		CookTimeMin: rec.CookTimeMin,
		Tags:        rec.Tags,
		Ingredients: ings,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func toRecipeInput(req recipeRequest) service.RecipeInput {
	in := service.RecipeInput{
		Title:       req.Title,
		Steps:       req.Steps,
		CookTimeMin: req.CookTimeMin,
		Tags:        req.Tags,
	}
	for _, ri := range req.Ingredients {
		in.Ingredients = append(in.Ingredients, service.RecipeIngredientInput{
			Name:     ri.Name,
			Quantity: ri.Quantity,
		})
	}
	return in
}

// HandleCreate creates a recipe owned by the caller.
func (h *RecipesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	rec, err := h.RecipeService.Create(r.Context(), toRecipeInput(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("recipe created", "recipe_id", rec.ID)
	httpx.WriteJSON(w, http.StatusCreated, toRecipeResponse(rec))
}

// HandleGet returns a single recipe.
func (h *RecipesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid recipe id")
		return
	}

	rec, err := h.RecipeService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRecipeResponse(rec))
}

// HandleSearch returns one page of recipes. Supported query params: q,
// maxTime, ingredient, mine, page, size, sort.
func (h *RecipesHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := parsePaging(r)

	req := service.RecipeSearch{
		Query:      q.Get("q"),
		Ingredient: q.Get("ingredient"),
		Mine:       q.Get("mine") == "true",
		Page:       page,
		Size:       size,
		Sort:       parseSort(r),
	}
	if raw := q.Get("maxTime"); raw != "" {
		maxTime, err := strconv.Atoi(raw)
		if err != nil || maxTime < 0 {
			httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid maxTime")
			return
		}
		req.MaxTime = &maxTime
	}

	result, err := h.RecipeService.Search(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := domain.Page[recipeResponse]{
		Content:       make([]recipeResponse, 0, len(result.Content)),
		Page:          result.Page,
		Size:          result.Size,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
	}
	for _, rec := range result.Content {
		out.Content = append(out.Content, toRecipeResponse(rec))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdate replaces a recipe. Owner only.
func (h *RecipesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid recipe id")
		return
	}

	var req recipeRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	rec, err := h.RecipeService.Update(r.Context(), id, toRecipeInput(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRecipeResponse(rec))
}

// HandleDelete removes a recipe. Owner only.
func (h *RecipesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid recipe id")
		return
	}

	if err := h.RecipeService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("recipe deleted", "recipe_id", id)
	w.WriteHeader(http.StatusNoContent)
}
