package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
)

// ResourceService defines the interface for shared learning resources
type ResourceService interface {
	List(ctx context.Context, rawQuery string) (*listing.Page[*models.Resource], error)
	Get(ctx context.Context, id int64) (*models.Resource, error)
	Create(ctx context.Context, actor models.Actor, res *models.Resource) (*models.Resource, error)
	Update(ctx context.Context, actor models.Actor, id int64, patch models.ResourcePatch) (*models.Resource, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
}

type ResourceHandler struct {
	service ResourceService
}

func NewResourceHandler(service ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

type CreateResourceRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Image       string `json:"image" validate:"omitempty,max=255"`
	Link        string `json:"link" validate:"omitempty,url,max=500"`
	Category    string `json:"category" validate:"required,min=2,max=50"`
}

type UpdateResourceRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Image       *string `json:"image" validate:"omitempty,max=255"`
	Link        *string `json:"link" validate:"omitempty,url,max=500"`
	Category    *string `json:"category" validate:"omitempty,min=2,max=50"`
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.List)
}

func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	serveGet(w, r, h.service.Get)
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req CreateResourceRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	res, err := h.service.Create(r.Context(), actor, &models.Resource{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Link:        req.Link,
		Category:    req.Category,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, res)
}

func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateResourceRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	res, err := h.service.Update(r.Context(), actor, id, models.ResourcePatch{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Link:        req.Link,
		Category:    req.Category,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, res)
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serveOwnedDelete(w, r, h.service.Delete, "Resource deleted")
}
