package controllers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/denovbaraka/storefront-backend/api/responses"
	"github.com/denovbaraka/storefront-backend/api/validators"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
	"github.com/denovbaraka/storefront-backend/pkg/localstore"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

type sessionWriter interface {
	PutJSON(ctx context.Context, name string, value any) error
}

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type adminSession struct {
	LoggedInAt time.Time `json:"loggedInAt"`
}

// AdminLogin checks the shared admin password. On success the client uses the
// same password as the X-Admin-Secret header on management routes, and a
// session marker is persisted for audit.
func AdminLogin(password string, store sessionWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if subtle.ConstantTimeCompare([]byte(payload.Password), []byte(password)) != 1 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password"))
			return
		}

		if store != nil {
			session := adminSession{LoggedInAt: time.Now().UTC()}
			if err := store.PutJSON(r.Context(), localstore.EntryAdminSession, session); err != nil && logg != nil {
				logg.Error(r.Context(), "persist admin session", err)
			}
		}

		responses.WriteSuccess(w, map[string]bool{"authenticated": true})
	}
}
