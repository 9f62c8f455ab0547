package http

import (
	"net/http"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/service"
	"github.com/tabletopkitchen/kitchen/pkg/authx"
	"github.com/tabletopkitchen/kitchen/pkg/httpx"
	"github.com/tabletopkitchen/kitchen/pkg/slogx"
)

type AuthHandler struct {
	UserService *service.UserService
}

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

// HandleSignup registers a new account.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	u, err := h.UserService.Signup(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("user registered", "user_id", u.ID)
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleLogin exchanges credentials for a signed access token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	token, u, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("user logged in", "user_id", u.ID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(u),
	})
}

// HandleMe returns the authenticated caller's profile.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := authx.IdentityFrom(r.Context())
	if !ok {
		writeServiceError(w, r, authx.ErrUnauthenticated)
		return
	}

	u, err := h.UserService.GetByID(r.Context(), ident.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}
