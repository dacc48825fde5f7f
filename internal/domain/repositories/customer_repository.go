package repositories

import (
	"context"

	"github.com/opinamais/opina-api/internal/domain/entities"
)

// CustomerRepository define o acesso a dados de clientes
type CustomerRepository interface {
	Create(ctx context.Context, customer *entities.Customer) error
	Update(ctx context.Context, customer *entities.Customer) error
	FindByID(ctx context.Context, customerID string) (*entities.Customer, error)
	// FindByApproxIdentity busca um cliente por contenção de substring,
	// sem diferenciar maiúsculas, entre nome/email enviados e armazenados.
	// Melhor esforço: retorna nil sem erro quando nada casa.
	FindByApproxIdentity(ctx context.Context, name, email string) (*entities.Customer, error)
	// UpdatePointsBalance grava o saldo materializado recalculado.
	UpdatePointsBalance(ctx context.Context, customerID string, balance int) error
}
