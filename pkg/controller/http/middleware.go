package http

import (
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
	"github.com/secmon-lab/eoms/pkg/usecase"
	"github.com/secmon-lab/eoms/pkg/utils/errutil"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
)

type AuthUseCase = usecase.AuthUseCaseInterface

// authMiddleware verifies the Bearer ID token and stores the principal in the
// request context. In no-auth mode every request runs as the development principal.
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if authUC == nil {
				errutil.HandleHTTP(ctx, w, goerr.New("authentication is not configured"), http.StatusUnauthorized, "authentication required")
				return
			}

			var token string
			if !authUC.IsNoAuthn() {
				token = bearerToken(r)
				if token == "" {
					errutil.HandleHTTP(ctx, w, goerr.Wrap(usecase.ErrUnauthenticated, "missing bearer token"), http.StatusUnauthorized, "authentication required")
					return
				}
			}

			principal, err := authUC.Authenticate(ctx, token)
			if err != nil {
				errutil.HandleHTTP(ctx, w, err, http.StatusUnauthorized, "invalid authentication token")
				return
			}

			ctx = auth.ContextWithPrincipal(ctx, principal)
			ctx = logging.With(ctx, logging.From(ctx).With("principal", principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	hdr := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(hdr, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
