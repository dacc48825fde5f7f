package repositories

import (
	"context"

	"github.com/opinamais/opina-api/internal/domain/entities"
)

// ResponseRepository define o acesso ao razão de respostas
type ResponseRepository interface {
	Create(ctx context.Context, response *entities.Response) error
	FindByID(ctx context.Context, responseID string) (*entities.Response, error)
	FindByCustomer(ctx context.Context, customerID string) ([]entities.Response, error)
	CountBySurvey(ctx context.Context, surveyID string) (int64, error)
	// FindAll retorna o razão inteiro. Custo O(total de respostas do sistema);
	// usado apenas pela varredura de reparo de atribuição.
	FindAll(ctx context.Context) ([]entities.Response, error)
	// UpdateApproval grava estado, revisor e data. Escrita direta, sem
	// compare-and-swap: o último escritor vence.
	UpdateApproval(ctx context.Context, response *entities.Response) error
	// UpdateAttribution grava a atribuição recuperada pela varredura de reparo.
	UpdateAttribution(ctx context.Context, responseID, customerID string) error
}
