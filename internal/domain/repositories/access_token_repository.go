package repositories

import (
	"context"

	"github.com/opinamais/opina-api/internal/domain/entities"
)

// AccessTokenRepository define o acesso a dados de QR codes de pesquisa
type AccessTokenRepository interface {
	Create(ctx context.Context, token *entities.AccessToken) error
	Update(ctx context.Context, token *entities.AccessToken) error
	FindByID(ctx context.Context, tokenID string) (*entities.AccessToken, error)
	FindByCode(ctx context.Context, code string) (*entities.AccessToken, error)
	FindBySurvey(ctx context.Context, surveyID string) ([]entities.AccessToken, error)
	// IncrementScanCount soma 1 ao contador de leituras em uma única instrução.
	// Não é atômico com a validação do código; o contador é informativo.
	IncrementScanCount(ctx context.Context, code string) error
	Delete(ctx context.Context, tokenID string) error
	// DeleteBySurvey remove todos os tokens da pesquisa e retorna quantos foram removidos.
	DeleteBySurvey(ctx context.Context, surveyID string) (int64, error)
}
