package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PerformanceLogger é um middleware que mede o tempo de resposta das rotas críticas
func PerformanceLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		// Rotas quentes: cada leitura de QR e cada submissão passam por aqui
		monitoredRoutes := []string{
			"/access-tokens",
			"/responses",
			"/customers",
		}

		shouldMonitor := false
		for _, route := range monitoredRoutes {
			if strings.HasPrefix(path, route) {
				shouldMonitor = true
				break
			}
		}

		if !shouldMonitor {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		log.Printf(
			"[PERFORMANCE] %s %s - %d - Duration: %v",
			c.Method(),
			path,
			c.Response().StatusCode(),
			duration,
		)

		return err
	}
}
