package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/tuanvumaihuynh/inventory-service/pkg/correlationid"
)

func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", correlationid.Header},
		ExposedHeaders: []string{"Location", correlationid.Header},
		MaxAge:         300,
	})
}
