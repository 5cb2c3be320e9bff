package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
)

// CatalogService defines the interface shared by subjects and fields
type CatalogService interface {
	List(ctx context.Context, rawQuery string) (*listing.Page[*models.CatalogItem], error)
	Get(ctx context.Context, id int64) (*models.CatalogItem, error)
	Create(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error)
	Update(ctx context.Context, id int64, patch models.CatalogPatch) (*models.CatalogItem, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogHandler serves one admin curated list. noun is used in messages.
type CatalogHandler struct {
	service CatalogService
	noun    string
}

func NewCatalogHandler(service CatalogService, noun string) *CatalogHandler {
	return &CatalogHandler{service: service, noun: noun}
}

type CreateCatalogRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Image string `json:"image" validate:"omitempty,max=255"`
}

type UpdateCatalogRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=50"`
	Image *string `json:"image" validate:"omitempty,max=255"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.List)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	serveGet(w, r, h.service.Get)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCatalogRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	item, err := h.service.Create(r.Context(), &models.CatalogItem{Name: req.Name, Image: req.Image})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, item)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateCatalogRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	item, err := h.service.Update(r.Context(), id, models.CatalogPatch{Name: req.Name, Image: req.Image})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteMessage(w, http.StatusOK, h.noun+" deleted")
}
