package usecases

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/internal/domain/repositories"
)

// Níveis de confiança da atribuição, do mais alto para o mais baixo
const (
	AttributionTierVerified  = "verified"
	AttributionTierReference = "reference"
	AttributionTierFuzzy     = "fuzzy"
	AttributionTierNone      = "none"
)

// SubmissionAttribution é o bloco opcional de identidade enviado junto com uma
// submissão. O campo customer aceita tanto um objeto {"id": ...} quanto uma
// string com o id; name e email são texto livre.
type SubmissionAttribution struct {
	Customer json.RawMessage `json:"customer,omitempty"`
	Name     string          `json:"name,omitempty"`
	Email    string          `json:"email,omitempty"`
}

// Attribution é o resultado da resolução de identidade de uma submissão.
// CustomerID vazio significa resposta armazenada sem atribuição — nunca um erro,
// pois respostas anônimas fazem parte do produto.
type Attribution struct {
	CustomerID string
	Tier       string
	Name       string
	Email      string
}

// matcher é uma estratégia de resolução: retorna o id do cliente ou vazio.
type matcher struct {
	tier string
	fn   func(ctx context.Context, attr *SubmissionAttribution, caller *CallerIdentity) (string, error)
}

// IdentityResolver decide a qual cliente uma submissão pertence, aplicando uma
// cadeia ordenada de estratégias em que a primeira que casar vence.
type IdentityResolver struct {
	customerRepo repositories.CustomerRepository
	responseRepo repositories.ResponseRepository
	chain        []matcher
	fuzzyEnabled bool
}

// NewIdentityResolver cria o resolvedor com a cadeia completa de estratégias.
func NewIdentityResolver(customerRepo repositories.CustomerRepository, responseRepo repositories.ResponseRepository) *IdentityResolver {
	r := &IdentityResolver{
		customerRepo: customerRepo,
		responseRepo: responseRepo,
		fuzzyEnabled: true,
	}
	r.chain = []matcher{
		{tier: AttributionTierVerified, fn: r.matchVerifiedIdentity},
		{tier: AttributionTierReference, fn: r.matchStructuredReference},
		{tier: AttributionTierReference, fn: r.matchStringReference},
		{tier: AttributionTierFuzzy, fn: r.matchApproxIdentity},
	}
	return r
}

// DisableFuzzyMatch desliga a estratégia de casamento aproximado. O nível fuzzy
// pode atribuir pontos à pessoa errada quando nomes ou emails se sobrepõem;
// operações que exigem atribuição confiável devem desligá-lo.
func (r *IdentityResolver) DisableFuzzyMatch() {
	r.fuzzyEnabled = false
}

// Resolve aplica a cadeia de estratégias sobre a submissão. Quando nenhuma
// casa, o texto livre enviado é preservado no resultado para armazenamento.
func (r *IdentityResolver) Resolve(ctx context.Context, attr *SubmissionAttribution, caller *CallerIdentity) (Attribution, error) {
	if attr == nil {
		attr = &SubmissionAttribution{}
	}

	result := Attribution{
		Tier:  AttributionTierNone,
		Name:  strings.TrimSpace(attr.Name),
		Email: strings.TrimSpace(attr.Email),
	}

	for _, m := range r.chain {
		if m.tier == AttributionTierFuzzy && !r.fuzzyEnabled {
			continue
		}
		customerID, err := m.fn(ctx, attr, caller)
		if err != nil {
			return Attribution{}, err
		}
		if customerID != "" {
			result.CustomerID = customerID
			result.Tier = m.tier
			return result, nil
		}
	}

	return result, nil
}

// Nível 1: identidade verificada apresentada pelo caller.
func (r *IdentityResolver) matchVerifiedIdentity(ctx context.Context, attr *SubmissionAttribution, caller *CallerIdentity) (string, error) {
	if caller != nil && caller.CustomerID != "" {
		return caller.CustomerID, nil
	}
	return "", nil
}

// Nível 2: payload com objeto {"id": ...}.
func (r *IdentityResolver) matchStructuredReference(ctx context.Context, attr *SubmissionAttribution, caller *CallerIdentity) (string, error) {
	if len(attr.Customer) == 0 {
		return "", nil
	}
	var ref struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(attr.Customer, &ref); err == nil && ref.ID != "" {
		return ref.ID, nil
	}
	return "", nil
}

// Nível 3: payload com o id como string simples.
func (r *IdentityResolver) matchStringReference(ctx context.Context, attr *SubmissionAttribution, caller *CallerIdentity) (string, error) {
	if len(attr.Customer) == 0 {
		return "", nil
	}
	var id string
	if err := json.Unmarshal(attr.Customer, &id); err == nil && id != "" {
		return id, nil
	}
	return "", nil
}

// Nível 4: casamento aproximado por nome/email. Melhor esforço, nunca
// identidade autoritativa.
func (r *IdentityResolver) matchApproxIdentity(ctx context.Context, attr *SubmissionAttribution, caller *CallerIdentity) (string, error) {
	name := strings.TrimSpace(attr.Name)
	email := strings.TrimSpace(attr.Email)
	if name == "" && email == "" {
		return "", nil
	}
	customer, err := r.customerRepo.FindByApproxIdentity(ctx, name, email)
	if err != nil {
		return "", err
	}
	if customer == nil {
		return "", nil
	}
	return customer.CustomerID, nil
}

// Repair varre o razão inteiro de respostas reaplicando as estratégias de
// casamento contra o cliente dado, para recuperar atribuições gravadas antes do
// cliente existir ou por um caminho que a consulta indexada não cobre.
//
// Custo O(total de respostas do sistema): deve permanecer um fallback raro de
// leitura de perfil, nunca um caminho de regime permanente.
func (r *IdentityResolver) Repair(ctx context.Context, customer *entities.Customer) ([]entities.Response, error) {
	ledger, err := r.responseRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var recovered []entities.Response
	for _, resp := range ledger {
		if resp.CustomerID == customer.CustomerID {
			// a consulta indexada não a encontrou, mas a atribuição já existe
			recovered = append(recovered, resp)
			continue
		}
		if resp.IsAttributed() {
			continue
		}
		if !r.fuzzyEnabled || !matchesApproxIdentity(&resp, customer) {
			continue
		}
		if err := r.responseRepo.UpdateAttribution(ctx, resp.ResponseID, customer.CustomerID); err != nil {
			return nil, err
		}
		resp.CustomerID = customer.CustomerID
		recovered = append(recovered, resp)
	}

	return recovered, nil
}

func matchesApproxIdentity(resp *entities.Response, customer *entities.Customer) bool {
	return containsFold(resp.RespondentEmail, customer.Email) ||
		containsFold(resp.RespondentName, customer.Name)
}

// containsFold testa contenção de substring nos dois sentidos, sem diferenciar
// maiúsculas; strings vazias nunca casam.
func containsFold(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}
