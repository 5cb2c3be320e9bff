package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
)

// CourseRegistrationService defines the interface for course sign ups
type CourseRegistrationService interface {
	ListMine(ctx context.Context, actor models.Actor, rawQuery string) (*listing.Page[*models.CourseRegistration], error)
	List(ctx context.Context, rawQuery string) (*listing.Page[*models.CourseRegistration], error)
	Create(ctx context.Context, actor models.Actor, reg *models.CourseRegistration) (*models.CourseRegistration, error)
	Update(ctx context.Context, actor models.Actor, id int64, patch models.CourseRegistrationPatch) (*models.CourseRegistration, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
}

type CourseRegistrationHandler struct {
	service CourseRegistrationService
}

func NewCourseRegistrationHandler(service CourseRegistrationService) *CourseRegistrationHandler {
	return &CourseRegistrationHandler{service: service}
}

// Dates are calendar days, YYYY-MM-DD
type CreateRegistrationRequest struct {
	EduCenterID int64  `json:"edu_center_id" validate:"required,gt=0"`
	BranchID    int64  `json:"branch_id" validate:"required,gt=0"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
}

type UpdateRegistrationRequest struct {
	EduCenterID *int64  `json:"edu_center_id" validate:"omitempty,gt=0"`
	BranchID    *int64  `json:"branch_id" validate:"omitempty,gt=0"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ListMine lists the caller's own registrations
// @Router /registrations/my [get]
func (h *CourseRegistrationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	page, err := h.service.ListMine(r.Context(), actor, r.URL.RawQuery)
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, page)
}

func (h *CourseRegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.List)
}

func (h *CourseRegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req CreateRegistrationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	reg, err := h.service.Create(r.Context(), actor, &models.CourseRegistration{
		EduCenterID: req.EduCenterID,
		BranchID:    req.BranchID,
		Date:        req.Date,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, reg)
}

func (h *CourseRegistrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateRegistrationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	reg, err := h.service.Update(r.Context(), actor, id, models.CourseRegistrationPatch{
		EduCenterID: req.EduCenterID,
		BranchID:    req.BranchID,
		Date:        req.Date,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, reg)
}

func (h *CourseRegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serveOwnedDelete(w, r, h.service.Delete, "Registration deleted")
}
