package usecases

import (
	"context"
	"strings"

	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/pkg/apperr"
)

// Repositórios em memória para os testes dos casos de uso. Create e Update
// aplicam Normalize como o BeforeSave do GORM faz no banco real.

type fakeSurveyRepo struct {
	surveys   map[string]*entities.Survey
	deleteErr error
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: make(map[string]*entities.Survey)}
}

func (f *fakeSurveyRepo) Create(ctx context.Context, survey *entities.Survey) error {
	if err := survey.Normalize(); err != nil {
		return err
	}
	f.surveys[survey.SurveyID] = survey
	return nil
}

func (f *fakeSurveyRepo) Update(ctx context.Context, survey *entities.Survey) error {
	if err := survey.Normalize(); err != nil {
		return err
	}
	f.surveys[survey.SurveyID] = survey
	return nil
}

func (f *fakeSurveyRepo) FindByID(ctx context.Context, surveyID string) (*entities.Survey, error) {
	if s, ok := f.surveys[surveyID]; ok {
		return s, nil
	}
	return nil, apperr.NewNotFound("pesquisa não encontrada")
}

func (f *fakeSurveyRepo) FindByBusiness(ctx context.Context, businessID string) ([]entities.Survey, error) {
	var out []entities.Survey
	for _, s := range f.surveys {
		if s.BusinessID == businessID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSurveyRepo) Delete(ctx context.Context, surveyID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.surveys[surveyID]; !ok {
		return apperr.NewNotFound("pesquisa não encontrada")
	}
	delete(f.surveys, surveyID)
	return nil
}

type fakeTokenRepo struct {
	tokens []*entities.AccessToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{}
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *entities.AccessToken) error {
	if err := token.Normalize(); err != nil {
		return err
	}
	f.tokens = append(f.tokens, token)
	return nil
}

func (f *fakeTokenRepo) Update(ctx context.Context, token *entities.AccessToken) error {
	if err := token.Normalize(); err != nil {
		return err
	}
	for i, t := range f.tokens {
		if t.TokenID == token.TokenID {
			f.tokens[i] = token
			return nil
		}
	}
	return apperr.NewNotFound("QR code não encontrado")
}

func (f *fakeTokenRepo) FindByID(ctx context.Context, tokenID string) (*entities.AccessToken, error) {
	for _, t := range f.tokens {
		if t.TokenID == tokenID {
			return t, nil
		}
	}
	return nil, apperr.NewNotFound("QR code não encontrado")
}

func (f *fakeTokenRepo) FindByCode(ctx context.Context, code string) (*entities.AccessToken, error) {
	for _, t := range f.tokens {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, apperr.NewNotFound("QR code não encontrado")
}

func (f *fakeTokenRepo) FindBySurvey(ctx context.Context, surveyID string) ([]entities.AccessToken, error) {
	var out []entities.AccessToken
	for _, t := range f.tokens {
		if t.SurveyID == surveyID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTokenRepo) IncrementScanCount(ctx context.Context, code string) error {
	for _, t := range f.tokens {
		if t.Code == code {
			t.ScanCount++
			return nil
		}
	}
	return apperr.NewNotFound("QR code não encontrado")
}

func (f *fakeTokenRepo) Delete(ctx context.Context, tokenID string) error {
	for i, t := range f.tokens {
		if t.TokenID == tokenID {
			f.tokens = append(f.tokens[:i], f.tokens[i+1:]...)
			return nil
		}
	}
	return apperr.NewNotFound("QR code não encontrado")
}

func (f *fakeTokenRepo) DeleteBySurvey(ctx context.Context, surveyID string) (int64, error) {
	var kept []*entities.AccessToken
	var removed int64
	for _, t := range f.tokens {
		if t.SurveyID == surveyID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	f.tokens = kept
	return removed, nil
}

type fakeResponseRepo struct {
	responses []*entities.Response
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{}
}

func (f *fakeResponseRepo) Create(ctx context.Context, response *entities.Response) error {
	f.responses = append(f.responses, response)
	return nil
}

func (f *fakeResponseRepo) FindByID(ctx context.Context, responseID string) (*entities.Response, error) {
	for _, r := range f.responses {
		if r.ResponseID == responseID {
			return r, nil
		}
	}
	return nil, apperr.NewNotFound("resposta não encontrada")
}

func (f *fakeResponseRepo) FindByCustomer(ctx context.Context, customerID string) ([]entities.Response, error) {
	var out []entities.Response
	for _, r := range f.responses {
		if r.CustomerID == customerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeResponseRepo) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	var count int64
	for _, r := range f.responses {
		if r.SurveyID == surveyID {
			count++
		}
	}
	return count, nil
}

func (f *fakeResponseRepo) FindAll(ctx context.Context) ([]entities.Response, error) {
	out := make([]entities.Response, 0, len(f.responses))
	for _, r := range f.responses {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeResponseRepo) UpdateApproval(ctx context.Context, response *entities.Response) error {
	for _, r := range f.responses {
		if r.ResponseID == response.ResponseID {
			r.ApprovalState = response.ApprovalState
			r.ReviewedBy = response.ReviewedBy
			r.ReviewedAt = response.ReviewedAt
			return nil
		}
	}
	return apperr.NewNotFound("resposta não encontrada")
}

func (f *fakeResponseRepo) UpdateAttribution(ctx context.Context, responseID, customerID string) error {
	for _, r := range f.responses {
		if r.ResponseID == responseID {
			r.CustomerID = customerID
			return nil
		}
	}
	return apperr.NewNotFound("resposta não encontrada")
}

type fakeCustomerRepo struct {
	customers     map[string]*entities.Customer
	balanceWrites int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*entities.Customer)}
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *entities.Customer) error {
	f.customers[customer.CustomerID] = customer
	return nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *entities.Customer) error {
	f.customers[customer.CustomerID] = customer
	return nil
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, customerID string) (*entities.Customer, error) {
	if c, ok := f.customers[customerID]; ok {
		return c, nil
	}
	return nil, apperr.NewNotFound("cliente não encontrado")
}

func (f *fakeCustomerRepo) FindByApproxIdentity(ctx context.Context, name, email string) (*entities.Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	for _, c := range f.customers {
		if containsFold(email, c.Email) || containsFold(name, c.Name) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) UpdatePointsBalance(ctx context.Context, customerID string, balance int) error {
	c, ok := f.customers[customerID]
	if !ok {
		return apperr.NewNotFound("cliente não encontrado")
	}
	c.PointsBalance = balance
	f.balanceWrites++
	return nil
}
