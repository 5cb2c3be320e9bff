package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
)

// CommentService defines the interface for edu center reviews
type CommentService interface {
	List(ctx context.Context, rawQuery string) (*listing.Page[*models.Comment], error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, actor models.Actor, c *models.Comment) (*models.Comment, error)
	Update(ctx context.Context, actor models.Actor, id int64, patch models.CommentPatch) (*models.Comment, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
}

// LikeService defines the interface for edu center likes
type LikeService interface {
	List(ctx context.Context, rawQuery string) (*listing.Page[*models.Like], error)
	Create(ctx context.Context, actor models.Actor, eduCenterID int64) (*models.Like, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
}

type CommentHandler struct {
	service CommentService
}

func NewCommentHandler(service CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type CreateCommentRequest struct {
	EduCenterID int64  `json:"edu_center_id" validate:"required,gt=0"`
	Star        int    `json:"star" validate:"required,min=1,max=5"`
	Message     string `json:"message" validate:"required,min=10,max=255"`
}

type UpdateCommentRequest struct {
	Star    *int    `json:"star" validate:"omitempty,min=1,max=5"`
	Message *string `json:"message" validate:"omitempty,min=5,max=255"`
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.List)
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	serveGet(w, r, h.service.Get)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	comment, err := h.service.Create(r.Context(), actor, &models.Comment{
		EduCenterID: req.EduCenterID,
		Star:        req.Star,
		Message:     req.Message,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	comment, err := h.service.Update(r.Context(), actor, id, models.CommentPatch{Star: req.Star, Message: req.Message})
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serveOwnedDelete(w, r, h.service.Delete, "Comment deleted")
}

type LikeHandler struct {
	service LikeService
}

func NewLikeHandler(service LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

type CreateLikeRequest struct {
	EduCenterID int64 `json:"edu_center_id" validate:"required,gt=0"`
}

func (h *LikeHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.List)
}

func (h *LikeHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req CreateLikeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	like, err := h.service.Create(r.Context(), actor, req.EduCenterID)
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, like)
}

func (h *LikeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serveOwnedDelete(w, r, h.service.Delete, "Like deleted")
}
