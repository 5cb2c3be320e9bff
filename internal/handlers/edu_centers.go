package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
)

// EduCenterService defines the interface for education center management
type EduCenterService interface {
	List(ctx context.Context, rawQuery string) (*listing.Page[*models.EduCenter], error)
	Get(ctx context.Context, id int64) (*models.EduCenter, error)
	Create(ctx context.Context, actor models.Actor, c *models.EduCenter) (*models.EduCenter, error)
	Update(ctx context.Context, actor models.Actor, id int64, patch models.EduCenterPatch) (*models.EduCenter, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
}

type EduCenterHandler struct {
	service EduCenterService
}

func NewEduCenterHandler(service EduCenterService) *EduCenterHandler {
	return &EduCenterHandler{service: service}
}

// CreateEduCenterRequest has no owner field; the owner is the caller
type CreateEduCenterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Image    string `json:"image" validate:"omitempty,max=255"`
	RegionID int64  `json:"region_id" validate:"required,gt=0"`
	Location string `json:"location" validate:"required,min=5,max=100"`
	Phone    string `json:"phone" validate:"required,uzphone"`
}

type UpdateEduCenterRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=50"`
	Image    *string `json:"image" validate:"omitempty,max=255"`
	RegionID *int64  `json:"region_id" validate:"omitempty,gt=0"`
	Location *string `json:"location" validate:"omitempty,min=5,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,uzphone"`
}

func (h *EduCenterHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.List)
}

func (h *EduCenterHandler) Get(w http.ResponseWriter, r *http.Request) {
	serveGet(w, r, h.service.Get)
}

func (h *EduCenterHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req CreateEduCenterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	center, err := h.service.Create(r.Context(), actor, &models.EduCenter{
		Name:     req.Name,
		Image:    req.Image,
		RegionID: req.RegionID,
		Location: req.Location,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, center)
}

func (h *EduCenterHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateEduCenterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	center, err := h.service.Update(r.Context(), actor, id, models.EduCenterPatch{
		Name:     req.Name,
		Image:    req.Image,
		RegionID: req.RegionID,
		Location: req.Location,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, center)
}

func (h *EduCenterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serveOwnedDelete(w, r, h.service.Delete, "Edu center deleted")
}
