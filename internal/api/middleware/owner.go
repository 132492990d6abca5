package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/api/shared"
)

// OwnerHeader names the request header carrying the owner ID. The edge in
// front of this service authenticates the caller and forwards their ID;
// the handlers only need an owner to scope queries by.
const OwnerHeader = "X-User-ID"

// OwnerMiddleware extracts the owner ID from the request header and puts
// it on the context under shared.UserIDContextKey. Requests without a
// parseable owner ID are rejected before reaching any handler.
func OwnerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(OwnerHeader)
		if raw == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Missing user ID header")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid user ID header")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
