package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// NewCORSMiddleware создает промежуточное ПО CORS. Если clientURL задан,
// запросы с других origin отклоняются; пустой clientURL разрешает любые.
func NewCORSMiddleware(clientURL string) fiber.Handler {
	cfg := cors.Config{
		AllowMethods: []string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodPut,
			fiber.MethodDelete,
		},
	}

	if clientURL != "" {
		cfg.AllowOrigins = []string{clientURL}
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}
