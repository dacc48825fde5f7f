package usecases

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/internal/domain/repositories"
	"github.com/opinamais/opina-api/internal/utils"
	"github.com/opinamais/opina-api/pkg/apperr"
)

const (
	// Limite de QR codes emitidos por chamada
	maxTokensPerIssue = 50
	// Tentativas de geração de código antes de desistir por colisão
	codeIssueAttempts = 3
)

// IssueTokenInput descreve um pedido de emissão de QR codes para uma pesquisa
type IssueTokenInput struct {
	SurveyID    string
	Count       int
	Description string
	Location    string
}

// AccessTokenUseCase implementa o registro de QR codes: emissão, validação e
// contagem de leituras
type AccessTokenUseCase struct {
	tokenRepo  repositories.AccessTokenRepository
	surveyRepo repositories.SurveyRepository
	baseURL    string

	now        func() time.Time
	randSuffix func() string
}

// NewAccessTokenUseCase cria uma nova instância de AccessTokenUseCase
func NewAccessTokenUseCase(tokenRepo repositories.AccessTokenRepository, surveyRepo repositories.SurveyRepository, baseURL string) *AccessTokenUseCase {
	return &AccessTokenUseCase{
		tokenRepo:  tokenRepo,
		surveyRepo: surveyRepo,
		baseURL:    strings.TrimRight(baseURL, "/"),
		now:        func() time.Time { return time.Now().In(utils.GetBrasilLocation()) },
		randSuffix: defaultRandSuffix,
	}
}

func defaultRandSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}

// generateCode compõe um código a partir de um fragmento do id da pesquisa, do
// timestamp em base 36 e de um sufixo aleatório curto. O espaço de códigos é
// esparso, mas colisões são verificadas antes do insert mesmo assim.
func (uc *AccessTokenUseCase) generateCode(surveyID string) string {
	fragment := strings.ReplaceAll(surveyID, "-", "")[:6]
	timestamp := strconv.FormatInt(uc.now().UnixMilli(), 36)
	return fragment + timestamp + uc.randSuffix()
}

// Issue emite um ou mais QR codes para a pesquisa. Cada código é testado
// contra os existentes e regenerado em caso de colisão.
func (uc *AccessTokenUseCase) Issue(ctx context.Context, input IssueTokenInput, actor *CallerIdentity) ([]entities.AccessToken, error) {
	if _, err := uuid.Parse(input.SurveyID); err != nil {
		return nil, apperr.NewValidation("id de pesquisa inválido")
	}

	survey, err := uc.surveyRepo.FindByID(ctx, input.SurveyID)
	if err != nil {
		return nil, err
	}

	if !actor.CanManageBusiness(survey.BusinessID) {
		return nil, apperr.NewUnauthorized("ator não pode emitir QR codes para esta pesquisa")
	}

	count := input.Count
	if count < 1 {
		count = 1
	}
	if count > maxTokensPerIssue {
		return nil, apperr.NewValidation(fmt.Sprintf("no máximo %d QR codes por emissão", maxTokensPerIssue))
	}

	tokens := make([]entities.AccessToken, 0, count)
	for i := 0; i < count; i++ {
		token, err := uc.issueOne(ctx, survey, input)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, *token)
	}

	return tokens, nil
}

func (uc *AccessTokenUseCase) issueOne(ctx context.Context, survey *entities.Survey, input IssueTokenInput) (*entities.AccessToken, error) {
	for attempt := 0; attempt < codeIssueAttempts; attempt++ {
		code := uc.generateCode(survey.SurveyID)

		_, err := uc.tokenRepo.FindByCode(ctx, code)
		if err == nil {
			// colisão: gera outro código
			continue
		}
		if !apperr.IsNotFound(err) {
			return nil, err
		}

		token := &entities.AccessToken{
			TokenID:     uuid.NewString(),
			Code:        code,
			URL:         uc.baseURL + "/s/" + code,
			SurveyID:    survey.SurveyID,
			BusinessID:  survey.BusinessID,
			IsActive:    true,
			ScanCount:   0,
			Description: input.Description,
			Location:    input.Location,
			CreatedAt:   uc.now(),
			UpdatedAt:   uc.now(),
		}
		if err := uc.tokenRepo.Create(ctx, token); err != nil {
			return nil, err
		}
		return token, nil
	}

	return nil, apperr.NewInternal("esgotadas as tentativas de gerar código único de QR code", nil)
}

// Validate resolve um código para a pesquisa e o token correspondentes,
// exigindo token ativo, pesquisa ativa e instante dentro da janela de validade.
func (uc *AccessTokenUseCase) Validate(ctx context.Context, code string) (*entities.Survey, *entities.AccessToken, error) {
	token, err := uc.tokenRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if !token.IsActive {
		return nil, nil, apperr.NewInactive("QR code desativado")
	}

	survey, err := uc.surveyRepo.FindByID(ctx, token.SurveyID)
	if err != nil {
		return nil, nil, err
	}
	if !survey.IsActive {
		return nil, nil, apperr.NewInactive("pesquisa desativada")
	}
	if !survey.WithinWindow(uc.now()) {
		return nil, nil, apperr.NewInactive("pesquisa fora da janela de validade")
	}

	return survey, token, nil
}

// RecordScan soma 1 ao contador de leituras do código. Chamada separada da
// validação, sem atomicidade entre as duas: o contador é informativo e nunca
// participa de controle de acesso ou cálculo de pontos.
func (uc *AccessTokenUseCase) RecordScan(ctx context.Context, code string) error {
	return uc.tokenRepo.IncrementScanCount(ctx, code)
}

// ListBySurvey retorna os QR codes da pesquisa para o painel administrativo.
func (uc *AccessTokenUseCase) ListBySurvey(ctx context.Context, surveyID string, actor *CallerIdentity) ([]entities.AccessToken, error) {
	if _, err := uuid.Parse(surveyID); err != nil {
		return nil, apperr.NewValidation("id de pesquisa inválido")
	}
	survey, err := uc.surveyRepo.FindByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageBusiness(survey.BusinessID) {
		return nil, apperr.NewUnauthorized("ator não pode listar QR codes desta pesquisa")
	}
	return uc.tokenRepo.FindBySurvey(ctx, surveyID)
}

// SetActive liga ou desliga um QR code sem afetar os demais da pesquisa.
func (uc *AccessTokenUseCase) SetActive(ctx context.Context, tokenID string, active bool, actor *CallerIdentity) (*entities.AccessToken, error) {
	if _, err := uuid.Parse(tokenID); err != nil {
		return nil, apperr.NewValidation("id de QR code inválido")
	}
	token, err := uc.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageBusiness(token.BusinessID) {
		return nil, apperr.NewUnauthorized("ator não pode alterar este QR code")
	}
	token.IsActive = active
	token.UpdatedAt = uc.now()
	if err := uc.tokenRepo.Update(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Delete remove um QR code individual.
func (uc *AccessTokenUseCase) Delete(ctx context.Context, tokenID string, actor *CallerIdentity) error {
	if _, err := uuid.Parse(tokenID); err != nil {
		return apperr.NewValidation("id de QR code inválido")
	}
	token, err := uc.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return err
	}
	if !actor.CanManageBusiness(token.BusinessID) {
		return apperr.NewUnauthorized("ator não pode excluir este QR code")
	}
	return uc.tokenRepo.Delete(ctx, token.TokenID)
}
