package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/opinamais/opina-api/internal/application/usecases"
	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/internal/interfaces/http/middleware"
	"github.com/opinamais/opina-api/internal/utils"
)

// SurveyHandler lida com requisições administrativas de pesquisas
type SurveyHandler struct {
	surveyUseCase *usecases.SurveyUseCase
}

// NewSurveyHandler cria uma nova instância de SurveyHandler
func NewSurveyHandler(surveyUseCase *usecases.SurveyUseCase) *SurveyHandler {
	return &SurveyHandler{surveyUseCase: surveyUseCase}
}

type createSurveyRequest struct {
	Title        string              `json:"title"`
	BusinessID   string              `json:"business_id"`
	Questions    []entities.Question `json:"questions"`
	RewardPoints int                 `json:"reward_points"`
	IsActive     *bool               `json:"is_active"`
	StartDate    string              `json:"start_date"`
	EndDate      string              `json:"end_date"`
}

// Create publica uma nova pesquisa
func (h *SurveyHandler) Create(c *fiber.Ctx) error {
	var req createSurveyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "corpo da requisição inválido"})
	}

	input := usecases.CreateSurveyInput{
		Title:        req.Title,
		BusinessID:   req.BusinessID,
		Questions:    req.Questions,
		RewardPoints: req.RewardPoints,
		IsActive:     true,
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}

	if req.StartDate != "" {
		start, err := utils.ParseFlexibleDate(req.StartDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "formato de data inválido para start_date"})
		}
		input.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := utils.ParseFlexibleDate(req.EndDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "formato de data inválido para end_date"})
		}
		input.EndDate = &end
	}

	survey, err := h.surveyUseCase.Create(c.Context(), input, middleware.CallerFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(survey)
}

// Get retorna uma pesquisa pelo id
func (h *SurveyHandler) Get(c *fiber.Ctx) error {
	survey, err := h.surveyUseCase.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(survey)
}

// List retorna as pesquisas da empresa do ator (ou da query business_id para super admin)
func (h *SurveyHandler) List(c *fiber.Ctx) error {
	surveys, err := h.surveyUseCase.ListByBusiness(c.Context(), c.Query("business_id"), middleware.CallerFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"surveys": surveys, "total": len(surveys)})
}

type setSurveyActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// SetActive liga ou desliga uma pesquisa
func (h *SurveyHandler) SetActive(c *fiber.Ctx) error {
	var req setSurveyActiveRequest
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return c.Status(400).JSON(fiber.Map{"error": "campo 'is_active' obrigatório"})
	}

	survey, err := h.surveyUseCase.SetActive(c.Context(), c.Params("id"), *req.IsActive, middleware.CallerFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(survey)
}

// Delete exclui uma pesquisa e seus QR codes em cascata
func (h *SurveyHandler) Delete(c *fiber.Ctx) error {
	if err := h.surveyUseCase.Delete(c.Context(), c.Params("id"), middleware.CallerFromContext(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(204)
}
