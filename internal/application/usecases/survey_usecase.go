package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/internal/domain/repositories"
	"github.com/opinamais/opina-api/internal/utils"
	"github.com/opinamais/opina-api/pkg/apperr"
)

// CreateSurveyInput descreve uma pesquisa a ser publicada
type CreateSurveyInput struct {
	Title        string
	BusinessID   string
	Questions    []entities.Question
	RewardPoints int
	IsActive     bool
	StartDate    *time.Time
	EndDate      *time.Time
}

// SurveyUseCase implementa os casos de uso administrativos de pesquisas
type SurveyUseCase struct {
	surveyRepo   repositories.SurveyRepository
	tokenRepo    repositories.AccessTokenRepository
	responseRepo repositories.ResponseRepository

	now func() time.Time
}

// NewSurveyUseCase cria uma nova instância de SurveyUseCase
func NewSurveyUseCase(surveyRepo repositories.SurveyRepository, tokenRepo repositories.AccessTokenRepository, responseRepo repositories.ResponseRepository) *SurveyUseCase {
	return &SurveyUseCase{
		surveyRepo:   surveyRepo,
		tokenRepo:    tokenRepo,
		responseRepo: responseRepo,
		now:          func() time.Time { return time.Now().In(utils.GetBrasilLocation()) },
	}
}

// Create publica uma nova pesquisa para a empresa do ator.
func (uc *SurveyUseCase) Create(ctx context.Context, input CreateSurveyInput, actor *CallerIdentity) (*entities.Survey, error) {
	businessID := input.BusinessID
	if businessID == "" && actor != nil {
		businessID = actor.BusinessID
	}
	if !actor.CanManageBusiness(businessID) {
		return nil, apperr.NewUnauthorized("ator não pode publicar pesquisas para esta empresa")
	}

	if input.Title == "" {
		return nil, apperr.NewValidation("título da pesquisa é obrigatório")
	}
	if len(input.Questions) == 0 {
		return nil, apperr.NewValidation("pesquisa precisa de ao menos uma pergunta")
	}
	if input.RewardPoints < 0 {
		return nil, apperr.NewValidation("pontos de recompensa não podem ser negativos")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, apperr.NewValidation("janela de validade invertida")
	}

	questions := make(entities.QuestionList, 0, len(input.Questions))
	for i, q := range input.Questions {
		if q.Text == "" {
			return nil, apperr.NewValidation(fmt.Sprintf("pergunta %d sem texto", i+1))
		}
		switch q.Type {
		case entities.QuestionTypeRating, entities.QuestionTypeText:
		case entities.QuestionTypeMultipleChoice:
			if len(q.Options) == 0 {
				return nil, apperr.NewValidation(fmt.Sprintf("pergunta %d de múltipla escolha sem opções", i+1))
			}
		default:
			return nil, apperr.NewValidation(fmt.Sprintf("tipo de pergunta inválido: %q", q.Type))
		}
		if q.QuestionID == "" {
			q.QuestionID = uuid.NewString()
		}
		questions = append(questions, q)
	}

	survey := &entities.Survey{
		SurveyID:     uuid.NewString(),
		Title:        input.Title,
		BusinessID:   businessID,
		Questions:    questions,
		RewardPoints: input.RewardPoints,
		IsActive:     input.IsActive,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		CreatedAt:    uc.now(),
		UpdatedAt:    uc.now(),
	}

	if err := uc.surveyRepo.Create(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// Get retorna uma pesquisa pelo id.
func (uc *SurveyUseCase) Get(ctx context.Context, surveyID string) (*entities.Survey, error) {
	if _, err := uuid.Parse(surveyID); err != nil {
		return nil, apperr.NewValidation("id de pesquisa inválido")
	}
	return uc.surveyRepo.FindByID(ctx, surveyID)
}

// ListByBusiness retorna as pesquisas da empresa do ator.
func (uc *SurveyUseCase) ListByBusiness(ctx context.Context, businessID string, actor *CallerIdentity) ([]entities.Survey, error) {
	if businessID == "" && actor != nil {
		businessID = actor.BusinessID
	}
	if !actor.CanManageBusiness(businessID) {
		return nil, apperr.NewUnauthorized("ator não pode listar pesquisas desta empresa")
	}
	return uc.surveyRepo.FindByBusiness(ctx, businessID)
}

// SetActive liga ou desliga a pesquisa. Pesquisas desligadas deixam de aceitar
// submissões e de validar QR codes imediatamente.
func (uc *SurveyUseCase) SetActive(ctx context.Context, surveyID string, active bool, actor *CallerIdentity) (*entities.Survey, error) {
	survey, err := uc.Get(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageBusiness(survey.BusinessID) {
		return nil, apperr.NewUnauthorized("ator não pode alterar esta pesquisa")
	}
	survey.IsActive = active
	survey.UpdatedAt = uc.now()
	if err := uc.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// Delete exclui a pesquisa e seus QR codes em cascata. Pesquisas com respostas
// nunca são excluídas. A cascata não é transacional: se os tokens forem
// removidos e a exclusão da pesquisa falhar, o estado parcial é reportado no
// erro em vez de engolido.
func (uc *SurveyUseCase) Delete(ctx context.Context, surveyID string, actor *CallerIdentity) error {
	survey, err := uc.Get(ctx, surveyID)
	if err != nil {
		return err
	}
	if !actor.CanManageBusiness(survey.BusinessID) {
		return apperr.NewUnauthorized("ator não pode excluir esta pesquisa")
	}

	count, err := uc.responseRepo.CountBySurvey(ctx, surveyID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.NewValidation(fmt.Sprintf("pesquisa com %d respostas não pode ser excluída", count))
	}

	removed, err := uc.tokenRepo.DeleteBySurvey(ctx, surveyID)
	if err != nil {
		return err
	}

	if err := uc.surveyRepo.Delete(ctx, surveyID); err != nil {
		return apperr.NewInternal(
			fmt.Sprintf("pesquisa não excluída após remoção de %d QR codes; estado parcial requer atenção", removed),
			err)
	}
	return nil
}
