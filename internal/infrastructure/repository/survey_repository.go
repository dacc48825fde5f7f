package repository

import (
	"context"
	"errors"

	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/pkg/apperr"
	"gorm.io/gorm"
)

// SurveyRepository implementa repositories.SurveyRepository sobre GORM
type SurveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository cria uma nova instância de SurveyRepository
func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

func (r *SurveyRepository) Create(ctx context.Context, survey *entities.Survey) error {
	if err := r.db.WithContext(ctx).Create(survey).Error; err != nil {
		if apperr.IsValidation(err) {
			return err
		}
		return apperr.NewInternal("erro ao criar pesquisa", err)
	}
	return nil
}

func (r *SurveyRepository) Update(ctx context.Context, survey *entities.Survey) error {
	if err := r.db.WithContext(ctx).Save(survey).Error; err != nil {
		if apperr.IsValidation(err) {
			return err
		}
		return apperr.NewInternal("erro ao atualizar pesquisa", err)
	}
	return nil
}

func (r *SurveyRepository) FindByID(ctx context.Context, surveyID string) (*entities.Survey, error) {
	var survey entities.Survey
	err := r.db.WithContext(ctx).Where("survey_id = ?", surveyID).First(&survey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("pesquisa não encontrada")
		}
		return nil, apperr.NewInternal("erro ao buscar pesquisa", err)
	}
	return &survey, nil
}

func (r *SurveyRepository) FindByBusiness(ctx context.Context, businessID string) ([]entities.Survey, error) {
	var surveys []entities.Survey
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at desc").
		Find(&surveys).Error
	if err != nil {
		return nil, apperr.NewInternal("erro ao listar pesquisas", err)
	}
	return surveys, nil
}

func (r *SurveyRepository) Delete(ctx context.Context, surveyID string) error {
	result := r.db.WithContext(ctx).Where("survey_id = ?", surveyID).Delete(&entities.Survey{})
	if result.Error != nil {
		return apperr.NewInternal("erro ao excluir pesquisa", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFound("pesquisa não encontrada")
	}
	return nil
}
