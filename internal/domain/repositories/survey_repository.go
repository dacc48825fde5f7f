package repositories

import (
	"context"

	"github.com/opinamais/opina-api/internal/domain/entities"
)

// SurveyRepository define o acesso a dados de pesquisas
type SurveyRepository interface {
	Create(ctx context.Context, survey *entities.Survey) error
	Update(ctx context.Context, survey *entities.Survey) error
	FindByID(ctx context.Context, surveyID string) (*entities.Survey, error)
	FindByBusiness(ctx context.Context, businessID string) ([]entities.Survey, error)
	Delete(ctx context.Context, surveyID string) error
}
