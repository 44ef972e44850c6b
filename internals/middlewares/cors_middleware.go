package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"tutorium_backend/internals/configs"
)

func CorsMiddleware() fiber.Handler {
	origins := configs.GetEnv("CORS_ALLOW_ORIGINS", strings.Join([]string{
		"http://localhost:3000",
		"http://localhost:5173",
	}, ", "))

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	})
}
