package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
)

// RegionService defines the interface for region management
type RegionService interface {
	List(ctx context.Context, rawQuery string) (*listing.Page[*models.Region], error)
	Get(ctx context.Context, id int64) (*models.Region, error)
	Create(ctx context.Context, name string) (*models.Region, error)
	Update(ctx context.Context, id int64, name string) (*models.Region, error)
	Delete(ctx context.Context, id int64) error
}

type RegionHandler struct {
	service RegionService
}

func NewRegionHandler(service RegionService) *RegionHandler {
	return &RegionHandler{service: service}
}

// RegionRequest is the body of both create and update
type RegionRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

func (h *RegionHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.List)
}

func (h *RegionHandler) Get(w http.ResponseWriter, r *http.Request) {
	serveGet(w, r, h.service.Get)
}

func (h *RegionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RegionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	region, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, region)
}

func (h *RegionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req RegionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	region, err := h.service.Update(r.Context(), id, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, region)
}

func (h *RegionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteMessage(w, http.StatusOK, "Region deleted")
}
