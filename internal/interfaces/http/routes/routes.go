package routes

import (
	"os"
	"time"

	"github.com/opinamais/opina-api/internal/application/usecases"
	"github.com/opinamais/opina-api/internal/infrastructure/cache"
	"github.com/opinamais/opina-api/internal/infrastructure/repository"
	"github.com/opinamais/opina-api/internal/interfaces/http/handlers"
	"github.com/opinamais/opina-api/internal/interfaces/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Add performance middleware
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Add ETag support for efficient caching
	app.Use(etag.New())

	// Request timing on the hot paths
	app.Use(middleware.PerformanceLogger())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "https://opinamais.com.br"
	}

	// Repositories
	surveyRepo := repository.NewSurveyRepository(db)
	tokenRepo := repository.NewAccessTokenRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// Resolver de identidade compartilhado entre submissão e recompensas
	resolver := usecases.NewIdentityResolver(customerRepo, responseRepo)

	// Use Cases
	tokenUseCase := usecases.NewAccessTokenUseCase(tokenRepo, surveyRepo, baseURL)
	responseUseCase := usecases.NewResponseUseCase(responseRepo, surveyRepo, customerRepo, resolver)
	rewardUseCase := usecases.NewRewardUseCase(customerRepo, responseRepo, resolver)
	surveyUseCase := usecases.NewSurveyUseCase(surveyRepo, tokenRepo, responseRepo)

	// Cache de perfis: leitura de perfil dispara recálculo de saldo
	profileCache := cache.New(time.Minute)

	// Handlers
	tokenHandler := handlers.NewAccessTokenHandler(tokenUseCase)
	responseHandler := handlers.NewResponseHandler(responseUseCase, profileCache)
	customerHandler := handlers.NewCustomerHandler(rewardUseCase, profileCache)
	surveyHandler := handlers.NewSurveyHandler(surveyUseCase)

	// Rotas públicas: entrada de pesquisa via QR code, submissão e perfil
	app.Get("/access-tokens/:code", tokenHandler.GetByCode)
	app.Post("/responses", responseHandler.Submit)
	app.Get("/customers/:id/profile", customerHandler.GetProfile)

	// Rotas administrativas (papel de admin obrigatório)
	admin := middleware.RequireAdmin()

	app.Post("/access-tokens", admin, tokenHandler.Issue)
	app.Get("/surveys/:surveyId/access-tokens", admin, tokenHandler.ListBySurvey)
	app.Patch("/access-tokens/:id/active", admin, tokenHandler.SetActive)
	app.Delete("/access-tokens/:id", admin, tokenHandler.Delete)

	app.Patch("/responses/:id/approval", admin, responseHandler.SetApproval)

	app.Post("/surveys", admin, surveyHandler.Create)
	app.Get("/surveys", admin, surveyHandler.List)
	app.Get("/surveys/:id", admin, surveyHandler.Get)
	app.Patch("/surveys/:id/active", admin, surveyHandler.SetActive)
	app.Delete("/surveys/:id", admin, surveyHandler.Delete)
}
