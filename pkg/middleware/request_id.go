package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/docscanhq/docscan/pkg/requestid"
)

// RequestID takes the request ID from the x-request-id header, or generates
// one when the header is absent, and injects it into the request's
// context.Context so the handler and service layers can tag their logs and
// error payloads with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("x-request-id")

		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}

		if requestID == "" {
			requestID = requestid.Generate()
		}

		ctx := requestid.ToContext(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
