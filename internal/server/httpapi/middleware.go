package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/vidpress/internal/common"
	"github.com/dmitrijs2005/vidpress/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// identityFromContext returns the verified caller identity, or an empty
// string for anonymous requests.
func identityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}

// identityMiddleware resolves the bearer token to a caller identity. A
// missing or invalid token is not an error here: the request proceeds
// anonymously and the access gate denies wherever identity is required.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get(common.AuthorizationHeaderName)
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if identity, err := auth.IdentityFromToken(token, s.jwtSecret); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, identity))
			}
		}

		next.ServeHTTP(w, r)
	})
}

// accessGateMiddleware consults the policy store before any privileged
// handler runs. Denial short-circuits the request with 403; no further I/O
// happens on that path.
func (s *Server) accessGateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		identity := identityFromContext(r.Context())

		if !s.access.CheckAccess(r.Context(), identity, r.URL.Path) {
			s.writeError(w, r, common.ErrAccessDenied)
			return
		}

		next.ServeHTTP(w, r)
	})
}
