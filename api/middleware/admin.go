package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/denovbaraka/storefront-backend/api/responses"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

const adminSecretHeader = "X-Admin-Secret"

// AdminOnly gates management routes behind the shared admin password. The
// client obtains the secret via POST /api/v1/admin/login and replays it on
// every admin request.
func AdminOnly(password string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := strings.TrimSpace(r.Header.Get(adminSecretHeader))
			if provided == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin secret required"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(password)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid admin secret"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
