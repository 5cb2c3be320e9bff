package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/BradenHooton/educenter/internal/auth"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	pkghttp "github.com/BradenHooton/educenter/pkg/http"
	"github.com/go-chi/chi/v5"
)

// respondError translates a service error into exactly one HTTP response.
// Anything not recognised is a 500 with a generic message; services have
// already logged the detail.
func respondError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		pkghttp.WriteBadRequest(w, ve.Message)
	case errors.Is(err, models.ErrDuplicateIdentity):
		pkghttp.WriteBadRequest(w, "User already exists")
	case errors.Is(err, models.ErrInvalidOTP):
		pkghttp.WriteBadRequest(w, "Code is not valid or expired")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Not found")
	case errors.Is(err, models.ErrIncorrectPassword):
		pkghttp.WriteUnauthorized(w, "Password is incorrect")
	case errors.Is(err, models.ErrInvalidRefreshToken):
		pkghttp.WriteUnauthorized(w, "Invalid refresh token")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Unauthorized")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Forbidden")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteBadRequest(w, "Already exists")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Bad request")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// decodeRequest reads and validates a JSON body. On failure the 400 has
// already been written and false is returned.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := pkghttp.DecodeJSON(w, r, dst); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return false
	}
	if err := ValidateRequest(dst); err != nil {
		respondError(w, err)
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. A missing or non-positive id is
// answered with 400.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		pkghttp.WriteBadRequest(w, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// actorFrom returns the authenticated caller. Routes using it sit behind
// auth.Authenticate; a missing identity is answered with 401.
func actorFrom(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Token not provided")
		return models.Actor{}, false
	}
	return models.ActorFromClaims(claims), true
}

// serveList answers a list endpoint. The raw query is handed to the
// listing engine untouched.
func serveList[T any](w http.ResponseWriter, r *http.Request, list func(context.Context, string) (*listing.Page[T], error)) {
	page, err := list(r.Context(), r.URL.RawQuery)
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, page)
}

func serveGet[T any](w http.ResponseWriter, r *http.Request, get func(context.Context, int64) (T, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, item)
}

// serveOwnedDelete deletes a row on behalf of the authenticated caller
func serveOwnedDelete(w http.ResponseWriter, r *http.Request, del func(context.Context, models.Actor, int64) error, message string) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := del(r.Context(), actor, id); err != nil {
		respondError(w, err)
		return
	}
	pkghttp.WriteMessage(w, http.StatusOK, message)
}
