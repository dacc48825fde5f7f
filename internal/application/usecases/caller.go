package usecases

// Papéis reconhecidos pela camada de autorização
const (
	RoleCustomer      = "customer"
	RoleBusinessAdmin = "business_admin"
	RoleSuperAdmin    = "super_admin"
)

// CallerIdentity é a identidade verificada extraída do token JWT da requisição.
// A emissão e a criptografia do token são responsabilidade do provedor de
// identidade externo; aqui o conteúdo já chega verificado.
type CallerIdentity struct {
	UserID     string
	CustomerID string
	Name       string
	Email      string
	Role       string
	BusinessID string
}

// IsSuperAdmin indica se o ator tem papel de super administrador.
func (c *CallerIdentity) IsSuperAdmin() bool {
	return c != nil && c.Role == RoleSuperAdmin
}

// CanManageBusiness indica se o ator pode administrar registros da empresa dada.
func (c *CallerIdentity) CanManageBusiness(businessID string) bool {
	if c == nil {
		return false
	}
	if c.Role == RoleSuperAdmin {
		return true
	}
	return c.Role == RoleBusinessAdmin && c.BusinessID != "" && c.BusinessID == businessID
}
