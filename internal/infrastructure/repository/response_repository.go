package repository

import (
	"context"
	"errors"

	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/pkg/apperr"
	"gorm.io/gorm"
)

// ResponseRepository implementa repositories.ResponseRepository sobre GORM
type ResponseRepository struct {
	db *gorm.DB
}

// NewResponseRepository cria uma nova instância de ResponseRepository
func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

func (r *ResponseRepository) Create(ctx context.Context, response *entities.Response) error {
	if err := r.db.WithContext(ctx).Create(response).Error; err != nil {
		return apperr.NewInternal("erro ao gravar resposta", err)
	}
	return nil
}

func (r *ResponseRepository) FindByID(ctx context.Context, responseID string) (*entities.Response, error) {
	var response entities.Response
	err := r.db.WithContext(ctx).Where("response_id = ?", responseID).First(&response).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("resposta não encontrada")
		}
		return nil, apperr.NewInternal("erro ao buscar resposta", err)
	}
	return &response, nil
}

func (r *ResponseRepository) FindByCustomer(ctx context.Context, customerID string) ([]entities.Response, error) {
	var responses []entities.Response
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&responses).Error
	if err != nil {
		return nil, apperr.NewInternal("erro ao buscar respostas do cliente", err)
	}
	return responses, nil
}

func (r *ResponseRepository) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Response{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	if err != nil {
		return 0, apperr.NewInternal("erro ao contar respostas da pesquisa", err)
	}
	return count, nil
}

func (r *ResponseRepository) FindAll(ctx context.Context) ([]entities.Response, error) {
	var responses []entities.Response
	err := r.db.WithContext(ctx).Order("created_at asc").Find(&responses).Error
	if err != nil {
		return nil, apperr.NewInternal("erro ao varrer o razão de respostas", err)
	}
	return responses, nil
}

func (r *ResponseRepository) UpdateApproval(ctx context.Context, response *entities.Response) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Response{}).
		Where("response_id = ?", response.ResponseID).
		Updates(map[string]interface{}{
			"approval_state": response.ApprovalState,
			"reviewed_by":    response.ReviewedBy,
			"reviewed_at":    response.ReviewedAt,
		})
	if result.Error != nil {
		return apperr.NewInternal("erro ao atualizar aprovação da resposta", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFound("resposta não encontrada")
	}
	return nil
}

func (r *ResponseRepository) UpdateAttribution(ctx context.Context, responseID, customerID string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Response{}).
		Where("response_id = ?", responseID).
		UpdateColumn("customer_id", customerID)
	if result.Error != nil {
		return apperr.NewInternal("erro ao atualizar atribuição da resposta", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFound("resposta não encontrada")
	}
	return nil
}
