package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
)

// BranchService defines the interface for branch management
type BranchService interface {
	List(ctx context.Context, rawQuery string) (*listing.Page[*models.Branch], error)
	Get(ctx context.Context, id int64) (*models.Branch, error)
	Create(ctx context.Context, actor models.Actor, b *models.Branch) (*models.Branch, error)
	Update(ctx context.Context, actor models.Actor, id int64, patch models.BranchPatch) (*models.Branch, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
}

type BranchHandler struct {
	service BranchService
}

func NewBranchHandler(service BranchService) *BranchHandler {
	return &BranchHandler{service: service}
}

type CreateBranchRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Image       string `json:"image" validate:"omitempty,max=255"`
	Phone       string `json:"phone" validate:"required,uzphone"`
	Location    string `json:"location" validate:"required,min=5,max=100"`
	RegionID    int64  `json:"region_id" validate:"required,gt=0"`
	EduCenterID int64  `json:"edu_center_id" validate:"required,gt=0"`
	FieldID     *int64 `json:"field_id" validate:"omitempty,gt=0"`
}

type UpdateBranchRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=50"`
	Image       *string `json:"image" validate:"omitempty,max=255"`
	Phone       *string `json:"phone" validate:"omitempty,uzphone"`
	Location    *string `json:"location" validate:"omitempty,min=5,max=100"`
	RegionID    *int64  `json:"region_id" validate:"omitempty,gt=0"`
	EduCenterID *int64  `json:"edu_center_id" validate:"omitempty,gt=0"`
	FieldID     *int64  `json:"field_id" validate:"omitempty,gt=0"`
}

func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.List)
}

func (h *BranchHandler) Get(w http.ResponseWriter, r *http.Request) {
	serveGet(w, r, h.service.Get)
}

func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req CreateBranchRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	branch, err := h.service.Create(r.Context(), actor, &models.Branch{
		Name:        req.Name,
		Image:       req.Image,
		Phone:       req.Phone,
		Location:    req.Location,
		RegionID:    req.RegionID,
		EduCenterID: req.EduCenterID,
		FieldID:     req.FieldID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, branch)
}

func (h *BranchHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateBranchRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	branch, err := h.service.Update(r.Context(), actor, id, models.BranchPatch{
		Name:        req.Name,
		Image:       req.Image,
		Phone:       req.Phone,
		Location:    req.Location,
		RegionID:    req.RegionID,
		EduCenterID: req.EduCenterID,
		FieldID:     req.FieldID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, branch)
}

func (h *BranchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serveOwnedDelete(w, r, h.service.Delete, "Branch deleted")
}
