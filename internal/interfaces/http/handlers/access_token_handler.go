package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/opinamais/opina-api/internal/application/usecases"
	"github.com/opinamais/opina-api/internal/interfaces/http/middleware"
)

// AccessTokenHandler lida com requisições relacionadas a QR codes de pesquisa
type AccessTokenHandler struct {
	tokenUseCase *usecases.AccessTokenUseCase
}

// NewAccessTokenHandler cria uma nova instância de AccessTokenHandler
func NewAccessTokenHandler(tokenUseCase *usecases.AccessTokenUseCase) *AccessTokenHandler {
	return &AccessTokenHandler{tokenUseCase: tokenUseCase}
}

// GetByCode valida um código e retorna a pesquisa e o token correspondentes
// @Summary Valida um QR code
// @Description Resolve o código para a pesquisa alvo; exige token e pesquisa ativos e dentro da janela de validade
// @Tags access-tokens
// @Produce json
// @Success 200 {object} map[string]interface{} "Pesquisa e token"
// @Failure 404 {object} map[string]interface{} "Código inexistente"
// @Failure 410 {object} map[string]interface{} "Token ou pesquisa desativados/expirados"
// @Router /access-tokens/{code} [get]
func (h *AccessTokenHandler) GetByCode(c *fiber.Ctx) error {
	code := c.Params("code")

	survey, token, err := h.tokenUseCase.Validate(c.Context(), code)
	if err != nil {
		return respondError(c, err)
	}

	// Registro de leitura separado da validação; falha aqui não derruba o scan
	if err := h.tokenUseCase.RecordScan(c.Context(), code); err != nil {
		log.Printf("⚠️ falha ao registrar leitura do código %s: %v", code, err)
	}

	return c.JSON(fiber.Map{
		"survey": survey,
		"token":  token,
	})
}

type issueTokensRequest struct {
	SurveyID    string `json:"survey_id"`
	Count       int    `json:"count"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// Issue emite um ou mais QR codes para uma pesquisa
func (h *AccessTokenHandler) Issue(c *fiber.Ctx) error {
	var req issueTokensRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "corpo da requisição inválido"})
	}

	tokens, err := h.tokenUseCase.Issue(c.Context(), usecases.IssueTokenInput{
		SurveyID:    req.SurveyID,
		Count:       req.Count,
		Description: req.Description,
		Location:    req.Location,
	}, middleware.CallerFromContext(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"tokens": tokens})
}

// ListBySurvey retorna os QR codes de uma pesquisa
func (h *AccessTokenHandler) ListBySurvey(c *fiber.Ctx) error {
	tokens, err := h.tokenUseCase.ListBySurvey(c.Context(), c.Params("surveyId"), middleware.CallerFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tokens": tokens})
}

type setTokenActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// SetActive liga ou desliga um QR code
func (h *AccessTokenHandler) SetActive(c *fiber.Ctx) error {
	var req setTokenActiveRequest
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return c.Status(400).JSON(fiber.Map{"error": "campo 'is_active' obrigatório"})
	}

	token, err := h.tokenUseCase.SetActive(c.Context(), c.Params("id"), *req.IsActive, middleware.CallerFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(token)
}

// Delete exclui um QR code
func (h *AccessTokenHandler) Delete(c *fiber.Ctx) error {
	if err := h.tokenUseCase.Delete(c.Context(), c.Params("id"), middleware.CallerFromContext(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(204)
}
