package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/opinamais/opina-api/internal/application/usecases"
	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/internal/infrastructure/cache"
	"github.com/opinamais/opina-api/internal/interfaces/http/middleware"
)

// ResponseHandler lida com submissões de respostas e com a revisão de aprovação
type ResponseHandler struct {
	responseUseCase *usecases.ResponseUseCase
	profileCache    *cache.Cache
}

// NewResponseHandler cria uma nova instância de ResponseHandler
func NewResponseHandler(responseUseCase *usecases.ResponseUseCase, profileCache *cache.Cache) *ResponseHandler {
	return &ResponseHandler{
		responseUseCase: responseUseCase,
		profileCache:    profileCache,
	}
}

type submitResponseRequest struct {
	SurveyID    string                          `json:"survey_id"`
	Answers     []entities.Answer               `json:"answers"`
	Attribution *usecases.SubmissionAttribution `json:"attribution,omitempty"`
}

// Submit grava uma submissão de pesquisa
// @Summary Submete respostas a uma pesquisa
// @Description Valida as perguntas obrigatórias, resolve a atribuição e grava a resposta em estado pendente
// @Tags responses
// @Accept json
// @Produce json
// @Success 201 {object} entities.Response "Resposta criada pendente"
// @Failure 400 {object} map[string]interface{} "Pesquisa inexistente ou perguntas obrigatórias faltando"
// @Failure 410 {object} map[string]interface{} "Pesquisa desativada ou expirada"
// @Router /responses [post]
func (h *ResponseHandler) Submit(c *fiber.Ctx) error {
	var req submitResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "corpo da requisição inválido"})
	}

	response, err := h.responseUseCase.Submit(c.Context(), usecases.SubmitResponseInput{
		SurveyID:    req.SurveyID,
		Answers:     req.Answers,
		Attribution: req.Attribution,
	}, middleware.CallerFromContext(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(response)
}

type setApprovalRequest struct {
	State string `json:"state"`
}

// SetApproval aprova ou rejeita uma resposta
func (h *ResponseHandler) SetApproval(c *fiber.Ctx) error {
	var req setApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "corpo da requisição inválido"})
	}

	response, err := h.responseUseCase.SetApprovalState(
		c.Context(), c.Params("id"), req.State, middleware.CallerFromContext(c))
	if err != nil {
		return respondError(c, err)
	}

	// O saldo é recalculado de forma preguiçosa na próxima leitura de perfil;
	// aqui só derrubamos o cache para encurtar a janela de desatualização.
	if response.IsAttributed() {
		h.profileCache.Delete(profileCacheKey(response.CustomerID))
	}

	return c.JSON(response)
}
