package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/opinamais/opina-api/pkg/apperr"
)

// statusForKind mapeia a taxonomia de erros da aplicação para códigos HTTP.
// Categorias terminais nunca devem ser repetidas pelo caller; apenas 500 é
// elegível para retry.
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindUnauthorized:
		return fiber.StatusForbidden
	case apperr.KindInactive:
		return fiber.StatusGone
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError traduz um erro da aplicação para a resposta HTTP padrão.
func respondError(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return c.Status(statusForKind(ae.Kind)).JSON(fiber.Map{
			"error": ae.Message,
			"kind":  ae.KindString(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "erro interno",
		"kind":  "ServerError",
	})
}
