package entities

import (
	"time"

	"gorm.io/gorm"
)

// AccessToken representa um QR code de acesso a uma pesquisa. O código é a
// identidade compartilhável; a imagem renderizada não é responsabilidade do servidor.
type AccessToken struct {
	TokenID     string    `json:"token_id" gorm:"primaryKey;column:token_id;type:uuid"`
	Code        string    `json:"code" gorm:"column:code;uniqueIndex"`
	URL         string    `json:"url" gorm:"column:url"`
	SurveyID    string    `json:"survey_id" gorm:"column:survey_id;type:uuid"`
	PesquisaID  string    `json:"pesquisa_id" gorm:"column:pesquisa_id;type:uuid"` // coluna legada, sempre igual a survey_id
	BusinessID  string    `json:"business_id" gorm:"column:business_id;type:uuid"`
	EmpresaID   string    `json:"empresa_id" gorm:"column:empresa_id;type:uuid"` // coluna legada, sempre igual a business_id
	IsActive    bool      `json:"is_active" gorm:"column:is_active"`
	ScanCount   int       `json:"scan_count" gorm:"column:scan_count"`
	Description string    `json:"description" gorm:"column:description"`
	Location    string    `json:"location" gorm:"column:location"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// Normalize aplica a guarda de consistência sobre os dois pares de referências.
func (t *AccessToken) Normalize() error {
	if err := normalizeReferencePair(&t.SurveyID, &t.PesquisaID, "pesquisa"); err != nil {
		return err
	}
	return normalizeReferencePair(&t.BusinessID, &t.EmpresaID, "empresa")
}

// BeforeSave garante que nenhuma escrita passe sem os pares preenchidos e iguais.
func (t *AccessToken) BeforeSave(tx *gorm.DB) error {
	return t.Normalize()
}
