package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Tipos de pergunta aceitos em uma pesquisa
const (
	QuestionTypeRating         = "rating"
	QuestionTypeText           = "text"
	QuestionTypeMultipleChoice = "multiple_choice"
)

// Question representa uma pergunta de uma pesquisa
type Question struct {
	QuestionID string   `json:"question_id"`
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Options    []string `json:"options,omitempty"`
	Required   bool     `json:"required"`
}

// QuestionList é a lista ordenada de perguntas, persistida como jsonb
type QuestionList []Question

// Value serializa a lista para o banco.
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	b, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan desserializa a lista vinda do banco.
func (q *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*q = QuestionList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	default:
		return fmt.Errorf("tipo inesperado para QuestionList: %T", value)
	}
}

// Survey representa uma pesquisa publicada por uma empresa
type Survey struct {
	SurveyID     string       `json:"survey_id" gorm:"primaryKey;column:survey_id;type:uuid"`
	Title        string       `json:"title" gorm:"column:title"`
	BusinessID   string       `json:"business_id" gorm:"column:business_id;type:uuid"`
	EmpresaID    string       `json:"empresa_id" gorm:"column:empresa_id;type:uuid"` // coluna legada, sempre igual a business_id
	Questions    QuestionList `json:"questions" gorm:"column:questions;type:jsonb"`
	RewardPoints int          `json:"reward_points" gorm:"column:reward_points"`
	IsActive     bool         `json:"is_active" gorm:"column:is_active"`
	StartDate    *time.Time   `json:"start_date,omitempty" gorm:"column:start_date"`
	EndDate      *time.Time   `json:"end_date,omitempty" gorm:"column:end_date"`
	CreatedAt    time.Time    `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"column:updated_at"`
}

// Normalize aplica a guarda de consistência sobre o par de referências da empresa.
func (s *Survey) Normalize() error {
	return normalizeReferencePair(&s.BusinessID, &s.EmpresaID, "empresa")
}

// BeforeSave garante que nenhuma escrita passe sem as duas colunas preenchidas e iguais.
func (s *Survey) BeforeSave(tx *gorm.DB) error {
	return s.Normalize()
}

// RequiredQuestionIDs retorna os ids das perguntas obrigatórias, na ordem declarada.
func (s *Survey) RequiredQuestionIDs() []string {
	var ids []string
	for _, q := range s.Questions {
		if q.Required {
			ids = append(ids, q.QuestionID)
		}
	}
	return ids
}

// WithinWindow verifica se o instante está dentro da janela de validade da
// pesquisa; limites nulos são tratados como irrestritos.
func (s *Survey) WithinWindow(now time.Time) bool {
	if s.StartDate != nil && now.Before(*s.StartDate) {
		return false
	}
	if s.EndDate != nil && now.After(*s.EndDate) {
		return false
	}
	return true
}
