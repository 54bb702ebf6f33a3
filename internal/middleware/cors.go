package middleware

import (
	"net/http"

	"entrega-backend/internal/config"
	"github.com/rs/cors"
)

// CORS builds the CORS layer from configuration.
func CORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CorsAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	methods := cfg.Server.CorsAllowedMethods
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	headers := cfg.Server.CorsAllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "Authorization"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
	})
	return c.Handler
}
