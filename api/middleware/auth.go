package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-pricing/api/responses"
	pkgAuth "github.com/angelmondragon/storefront-pricing/pkg/auth"
	"github.com/angelmondragon/storefront-pricing/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
)

// Auth requires a shopper access token. The user id and, when present, the
// region claim are stored on the request context for the checkout handlers.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	verifier, setupErr := pkgAuth.NewVerifier(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if setupErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, setupErr, "auth misconfigured"))
				return
			}
			token, err := pkgAuth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			userID := claims.UserID.String()
			ctx := WithUserID(r.Context(), userID)
			if claims.Region != "" {
				ctx = WithRegion(ctx, claims.Region)
			}
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
