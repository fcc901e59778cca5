package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hyunwoopark/meritpoint/internal/auth"
	"github.com/hyunwoopark/meritpoint/internal/store"
)

const tokenCookieName = "meritpoint_token"

// RequireAuth verifies the access-token cookie, resolves the actor from the
// store, and rejects accounts that are unverified, rejected, or deleted.
// Downstream handlers receive a fully-loaded Actor on the context; the
// points core never inspects session state itself.
func RequireAuth(actors *store.ActorStore, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(tokenCookieName)
			if err != nil || cookie.Value == "" {
				denied(w, http.StatusUnauthorized, "authentication required")
				return
			}

			sn, err := auth.ParseSubject(secret, cookie.Value)
			if err != nil {
				denied(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			actor, err := actors.GetBySN(sn)
			if err != nil {
				denied(w, http.StatusInternalServerError, "an unexpected error occurred")
				return
			}
			if actor == nil {
				denied(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if actor.VerifiedAt == nil || actor.RejectedAt != nil || actor.DeletedAt != nil {
				denied(w, http.StatusForbidden, "the account is not active")
				return
			}

			ctx := auth.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func denied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
