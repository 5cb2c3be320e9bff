package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

// Store is the read and delete surface every entity repository shares
type Store[T any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)
	Count(ctx context.Context, q listing.Query) (int64, error)
	FindPage(ctx context.Context, q listing.Query) ([]*T, error)
	Delete(ctx context.Context, id int64) error
}

// privileged roles may change rows they do not own
var privileged = []string{models.RoleAdmin, models.RoleSuperAdmin}

func fetchPage[T any](ctx context.Context, logger *slog.Logger, entity string, store Store[T], q listing.Query) (*listing.Page[*T], error) {
	page, err := listing.Fetch[*T](ctx, store, q)
	if err != nil {
		logger.Error("failed to list "+entity,
			slog.Int("limit", q.Limit),
			slog.Int("page", q.Page),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return page, nil
}

func getByID[T any](ctx context.Context, logger *slog.Logger, entity string, store Store[T], id int64) (*T, error) {
	item, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(logger, "failed to get "+entity, err, slog.Int64("id", id))
	}
	return item, nil
}

// repoError turns a repository failure into the sentinel handlers expect.
// Unexpected errors are logged here and hidden behind ErrInternalServer.
func repoError(logger *slog.Logger, msg string, err error, attrs ...any) error {
	var ve *models.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return models.ErrNotFound
	case errors.Is(err, models.ErrConflict):
		return models.ErrConflict
	case errors.As(err, &ve):
		return ve
	case errors.Is(err, models.ErrBadRequest):
		return models.ErrBadRequest
	}

	logger.Error(msg, append(attrs, slog.Any("error", err))...)
	return models.ErrInternalServer
}

// duplicateName reports a unique name clash as a client error
func duplicateName(err error) error {
	if errors.Is(err, models.ErrConflict) {
		return models.NewValidationError("name", "Name already exists")
	}
	return err
}
