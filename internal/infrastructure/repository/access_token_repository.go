package repository

import (
	"context"
	"errors"

	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/pkg/apperr"
	"gorm.io/gorm"
)

// AccessTokenRepository implementa repositories.AccessTokenRepository sobre GORM
type AccessTokenRepository struct {
	db *gorm.DB
}

// NewAccessTokenRepository cria uma nova instância de AccessTokenRepository
func NewAccessTokenRepository(db *gorm.DB) *AccessTokenRepository {
	return &AccessTokenRepository{db: db}
}

func (r *AccessTokenRepository) Create(ctx context.Context, token *entities.AccessToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		if apperr.IsValidation(err) {
			return err
		}
		return apperr.NewInternal("erro ao criar QR code", err)
	}
	return nil
}

func (r *AccessTokenRepository) Update(ctx context.Context, token *entities.AccessToken) error {
	if err := r.db.WithContext(ctx).Save(token).Error; err != nil {
		if apperr.IsValidation(err) {
			return err
		}
		return apperr.NewInternal("erro ao atualizar QR code", err)
	}
	return nil
}

func (r *AccessTokenRepository) FindByID(ctx context.Context, tokenID string) (*entities.AccessToken, error) {
	var token entities.AccessToken
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("QR code não encontrado")
		}
		return nil, apperr.NewInternal("erro ao buscar QR code", err)
	}
	return &token, nil
}

func (r *AccessTokenRepository) FindByCode(ctx context.Context, code string) (*entities.AccessToken, error) {
	var token entities.AccessToken
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("QR code não encontrado")
		}
		return nil, apperr.NewInternal("erro ao buscar QR code", err)
	}
	return &token, nil
}

func (r *AccessTokenRepository) FindBySurvey(ctx context.Context, surveyID string) ([]entities.AccessToken, error) {
	var tokens []entities.AccessToken
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("created_at asc").
		Find(&tokens).Error
	if err != nil {
		return nil, apperr.NewInternal("erro ao listar QR codes", err)
	}
	return tokens, nil
}

func (r *AccessTokenRepository) IncrementScanCount(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.AccessToken{}).
		Where("code = ?", code).
		UpdateColumn("scan_count", gorm.Expr("scan_count + ?", 1))
	if result.Error != nil {
		return apperr.NewInternal("erro ao registrar leitura do QR code", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFound("QR code não encontrado")
	}
	return nil
}

func (r *AccessTokenRepository) Delete(ctx context.Context, tokenID string) error {
	result := r.db.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&entities.AccessToken{})
	if result.Error != nil {
		return apperr.NewInternal("erro ao excluir QR code", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFound("QR code não encontrado")
	}
	return nil
}

func (r *AccessTokenRepository) DeleteBySurvey(ctx context.Context, surveyID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("survey_id = ?", surveyID).Delete(&entities.AccessToken{})
	if result.Error != nil {
		return 0, apperr.NewInternal("erro ao excluir QR codes da pesquisa", result.Error)
	}
	return result.RowsAffected, nil
}
