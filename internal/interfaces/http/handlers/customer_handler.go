package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/opinamais/opina-api/internal/application/usecases"
	"github.com/opinamais/opina-api/internal/infrastructure/cache"
)

// TTL curto do perfil: amortece rajadas de leitura sem alongar de forma
// relevante a janela de desatualização do saldo
const profileCacheTTL = 10 * time.Second

func profileCacheKey(customerID string) string {
	return "profile:" + customerID
}

// CustomerHandler lida com leituras de perfil de cliente
type CustomerHandler struct {
	rewardUseCase *usecases.RewardUseCase
	profileCache  *cache.Cache
}

// NewCustomerHandler cria uma nova instância de CustomerHandler
func NewCustomerHandler(rewardUseCase *usecases.RewardUseCase, profileCache *cache.Cache) *CustomerHandler {
	return &CustomerHandler{
		rewardUseCase: rewardUseCase,
		profileCache:  profileCache,
	}
}

// GetProfile retorna o cliente com saldo recalculado e respostas particionadas
// @Summary Perfil do cliente
// @Description Recalcula o saldo a partir das respostas aprovadas e particiona as respostas por estado de aprovação
// @Tags customers
// @Produce json
// @Success 200 {object} usecases.CustomerProfile "Perfil com saldo recalculado"
// @Failure 404 {object} map[string]interface{} "Cliente inexistente"
// @Router /customers/{id}/profile [get]
func (h *CustomerHandler) GetProfile(c *fiber.Ctx) error {
	customerID := c.Params("id")

	if cached, ok := h.profileCache.Get(profileCacheKey(customerID)); ok {
		return c.JSON(cached)
	}

	profile, err := h.rewardUseCase.GetProfile(c.Context(), customerID)
	if err != nil {
		return respondError(c, err)
	}

	h.profileCache.Set(profileCacheKey(customerID), profile, profileCacheTTL)
	return c.JSON(profile)
}
