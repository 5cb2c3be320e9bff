package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	"github.com/BradenHooton/educenter/internal/services"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
)

// UserService defines the interface for admin account management
type UserService interface {
	List(ctx context.Context, rawQuery string) (*listing.Page[*models.User], error)
	ListByRegion(ctx context.Context, regionID int64, rawQuery string) (*listing.Page[*models.User], error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, actor models.Actor, in services.CreateUserInput) (*models.User, error)
	Update(ctx context.Context, actor models.Actor, id int64, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"required,uzphone"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=user ceo admin super-admin"`
	RegionID *int64 `json:"region_id" validate:"omitempty,gt=0"`
	Year     *int   `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Image    string `json:"image" validate:"omitempty,max=255"`
}

// UpdateUserRequest represents the request body for updating a user.
// Omitted fields are left unchanged.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,uzphone"`
	Role     *string `json:"role" validate:"omitempty,oneof=user ceo admin super-admin"`
	Status   *string `json:"status" validate:"omitempty,oneof=pending active"`
	RegionID *int64  `json:"region_id" validate:"omitempty,gt=0"`
	Year     *int    `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Image    *string `json:"image" validate:"omitempty,max=255"`
}

// ListUsers lists users with filters, sorting and pagination
// @Router /users/all [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), r.URL.RawQuery)
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// ListByRegion lists the users of one region
// @Router /users/byregion/{id} [get]
func (h *UserHandler) ListByRegion(w http.ResponseWriter, r *http.Request) {
	regionID, ok := pathID(w, r)
	if !ok {
		return
	}

	page, err := h.service.ListByRegion(r.Context(), regionID, r.URL.RawQuery)
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// GetUser retrieves a user by ID
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// CreateUser creates an active account
// @Router /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req CreateUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.service.Create(r.Context(), actor, services.CreateUserInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		RegionID: req.RegionID,
		Year:     req.Year,
		Image:    req.Image,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, user)
}

// UpdateUser applies a partial update
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.service.Update(r.Context(), actor, id, models.UserPatch{
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
		Status:   req.Status,
		RegionID: req.RegionID,
		Year:     req.Year,
		Image:    req.Image,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// DeleteUser deletes a user by ID
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteMessage(w, http.StatusOK, "User deleted")
}
