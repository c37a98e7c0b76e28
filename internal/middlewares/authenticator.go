package middlewares

import (
	"context"
	"net/http"
	"strings"

	"migrator/internal/configuration"
	"migrator/internal/helpers"
	"migrator/internal/models"
)

// Authenticate rejects requests without a valid invoker token, except on
// paths AuthRulePrefixMatchPath excludes.
func Authenticate(secret string, audience string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if isExcluded(r.URL.Path, r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := helpers.ParseInvokerToken(secret, audience, r.Header.Get("Authorization"))
			if err != nil {
				helpers.RespondWithError(w, http.StatusUnauthorized, []string{"UNAUTHORIZED"})
				return
			}

			ctx := context.WithValue(r.Context(), models.InvokerClaimKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func isExcluded(path, method string) bool {
	for _, rule := range configuration.AuthRulePrefixMatchPath {
		if strings.HasPrefix(path, rule.Path) {
			if rule.Method == "*" || rule.Method == method {
				return !rule.RequireAuth
			}
		}
	}
	return false
}

func GetInvokerClaims(r *http.Request) models.InvokerClaims {
	claims, _ := r.Context().Value(models.InvokerClaimKey{}).(models.InvokerClaims)
	return claims
}
