package usecases

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/internal/domain/repositories"
	"github.com/opinamais/opina-api/internal/utils"
	"github.com/opinamais/opina-api/pkg/apperr"
)

// SubmitResponseInput transporta uma submissão já desserializada do handler
type SubmitResponseInput struct {
	SurveyID    string
	Answers     []entities.Answer
	Attribution *SubmissionAttribution
}

// ResponseUseCase implementa o razão de respostas: validação da submissão,
// atribuição e mudança de estado de aprovação
type ResponseUseCase struct {
	responseRepo repositories.ResponseRepository
	surveyRepo   repositories.SurveyRepository
	customerRepo repositories.CustomerRepository
	resolver     *IdentityResolver

	now func() time.Time
}

// NewResponseUseCase cria uma nova instância de ResponseUseCase
func NewResponseUseCase(
	responseRepo repositories.ResponseRepository,
	surveyRepo repositories.SurveyRepository,
	customerRepo repositories.CustomerRepository,
	resolver *IdentityResolver,
) *ResponseUseCase {
	return &ResponseUseCase{
		responseRepo: responseRepo,
		surveyRepo:   surveyRepo,
		customerRepo: customerRepo,
		resolver:     resolver,
		now:          func() time.Time { return time.Now().In(utils.GetBrasilLocation()) },
	}
}

// Submit valida e grava uma submissão. Toda resposta nasce pendente, com os
// pontos copiados da pesquisa e a empresa copiada da pesquisa no momento da
// criação. Valores de múltipla escolha são gravados como escalares opacos, sem
// validação contra as opções declaradas (ver DESIGN.md).
func (uc *ResponseUseCase) Submit(ctx context.Context, input SubmitResponseInput, caller *CallerIdentity) (*entities.Response, error) {
	if _, err := uuid.Parse(input.SurveyID); err != nil {
		return nil, apperr.NewValidation("id de pesquisa inválido")
	}

	survey, err := uc.surveyRepo.FindByID(ctx, input.SurveyID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NewValidation("pesquisa inexistente")
		}
		return nil, err
	}

	if !survey.IsActive {
		return nil, apperr.NewInactive("pesquisa desativada")
	}
	if !survey.WithinWindow(uc.now()) {
		return nil, apperr.NewInactive("pesquisa fora da janela de validade")
	}

	if missing := missingRequiredQuestions(survey, input.Answers); len(missing) > 0 {
		return nil, apperr.NewValidation(
			"perguntas obrigatórias sem resposta: " + strings.Join(missing, ", "))
	}

	attribution, err := uc.resolver.Resolve(ctx, input.Attribution, caller)
	if err != nil {
		return nil, err
	}

	response := &entities.Response{
		ResponseID:      uuid.NewString(),
		SurveyID:        survey.SurveyID,
		BusinessID:      survey.BusinessID,
		CustomerID:      attribution.CustomerID,
		RespondentName:  attribution.Name,
		RespondentEmail: attribution.Email,
		Answers:         input.Answers,
		RewardPoints:    survey.RewardPoints,
		ApprovalState:   entities.ApprovalPending,
		CreatedAt:       uc.now(),
	}

	if err := uc.responseRepo.Create(ctx, response); err != nil {
		return nil, err
	}

	if attribution.CustomerID != "" {
		uc.appendCompletedSurvey(ctx, attribution.CustomerID, survey.SurveyID)
	}

	return response, nil
}

// appendCompletedSurvey atualiza a lista informativa de pesquisas respondidas.
// Melhor esforço: a lista não é autoritativa e falhas aqui não invalidam a submissão.
func (uc *ResponseUseCase) appendCompletedSurvey(ctx context.Context, customerID, surveyID string) {
	customer, err := uc.customerRepo.FindByID(ctx, customerID)
	if err != nil || customer.CompletedSurveys.Contains(surveyID) {
		return
	}
	customer.CompletedSurveys = append(customer.CompletedSurveys, surveyID)
	customer.UpdatedAt = uc.now()
	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		log.Printf("⚠️ falha ao atualizar pesquisas respondidas do cliente %s: %v", customerID, err)
	}
}

// missingRequiredQuestions calcula a diferença entre o conjunto de perguntas
// obrigatórias da pesquisa e o conjunto de perguntas respondidas.
func missingRequiredQuestions(survey *entities.Survey, answers []entities.Answer) []string {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = true
	}

	var missing []string
	for _, id := range survey.RequiredQuestionIDs() {
		if !answered[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// SetApprovalState aprova ou rejeita uma resposta. Escrita direta com revisor e
// data, sem token de concorrência otimista: aprovações concorrentes sobre a
// mesma resposta terminam com o último escritor vencendo.
func (uc *ResponseUseCase) SetApprovalState(ctx context.Context, responseID, state string, actor *CallerIdentity) (*entities.Response, error) {
	if _, err := uuid.Parse(responseID); err != nil {
		return nil, apperr.NewValidation("id de resposta inválido")
	}
	if state != entities.ApprovalApproved && state != entities.ApprovalRejected {
		return nil, apperr.NewValidation(fmt.Sprintf("estado de aprovação inválido: %q", state))
	}

	response, err := uc.responseRepo.FindByID(ctx, responseID)
	if err != nil {
		return nil, err
	}

	if !actor.CanManageBusiness(response.BusinessID) {
		return nil, apperr.NewUnauthorized("ator não pertence à empresa desta resposta")
	}

	reviewedAt := uc.now()
	response.ApprovalState = state
	response.ReviewedBy = actor.UserID
	response.ReviewedAt = &reviewedAt

	if err := uc.responseRepo.UpdateApproval(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}
