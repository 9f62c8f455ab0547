package http

import (
	"net/http"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/service"
	"github.com/tabletopkitchen/kitchen/pkg/httpx"
	"github.com/tabletopkitchen/kitchen/pkg/slogx"
)

type PantryHandler struct {
	PantryService *service.PantryService
}

type pantryRequest struct {
	Ingredient string  `json:"ingredient"`
	Amount     string  `json:"amount"`
	ExpiresOn  *string `json:"expiresOn"` // ISO date, null means no expiry
}

type pantryItemResponse struct {
	ID         int64     `json:"id"`
	Ingredient string    `json:"ingredient"`
	Amount     string    `json:"amount"`
	ExpiresOn  *string   `json:"expiresOn"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toPantryItemResponse(item domain.PantryItem) pantryItemResponse {
	return pantryItemResponse{
		ID:         item.ID,
		Ingredient: item.IngredientName,
		Amount:     item.Amount,
		ExpiresOn:  formatDate(item.ExpiresOn),
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func toPantryInput(req pantryRequest) (service.PantryInput, error) {
	in := service.PantryInput{
		Ingredient: req.Ingredient,
		Amount:     req.Amount,
	}
	if req.ExpiresOn != nil {
		t, err := time.Parse(dateLayout, *req.ExpiresOn)
		if err != nil {
			return service.PantryInput{}, err
		}
		in.ExpiresOn = &t
	}
	return in, nil
}

// HandleAdd creates a pantry item for the caller.
func (h *PantryHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req pantryRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	in, err := toPantryInput(req)
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "expiresOn must be a YYYY-MM-DD date")
		return
	}

	item, err := h.PantryService.Add(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("pantry item added", "item_id", item.ID)
	httpx.WriteJSON(w, http.StatusCreated, toPantryItemResponse(item))
}

// HandleList returns one page of the caller's pantry. Supported query
// params: ingredient, expFrom, expTo, page, size, sort.
func (h *PantryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	expFrom, err := parseDateParam(r, "expFrom")
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "expFrom must be a YYYY-MM-DD date")
		return
	}
	expTo, err := parseDateParam(r, "expTo")
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "expTo must be a YYYY-MM-DD date")
		return
	}

	page, size := parsePaging(r)
	result, err := h.PantryService.List(r.Context(), service.PantryList{
		Ingredient: r.URL.Query().Get("ingredient"),
		ExpFrom:    expFrom,
		ExpTo:      expTo,
		Page:       page,
		Size:       size,
		Sort:       parseSort(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := domain.Page[pantryItemResponse]{
		Content:       make([]pantryItemResponse, 0, len(result.Content)),
		Page:          result.Page,
		Size:          result.Size,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
	}
	for _, item := range result.Content {
		out.Content = append(out.Content, toPantryItemResponse(item))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet returns a single pantry item. Owner only.
func (h *PantryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid pantry item id")
		return
	}

	item, err := h.PantryService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPantryItemResponse(item))
}

// HandleUpdate rewrites a pantry item. Owner only.
func (h *PantryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid pantry item id")
		return
	}

	var req pantryRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	in, err := toPantryInput(req)
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "expiresOn must be a YYYY-MM-DD date")
		return
	}

	item, err := h.PantryService.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPantryItemResponse(item))
}

// HandleDelete removes a pantry item. Owner only.
func (h *PantryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid pantry item id")
		return
	}

	if err := h.PantryService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("pantry item deleted", "item_id", id)
	w.WriteHeader(http.StatusNoContent)
}
