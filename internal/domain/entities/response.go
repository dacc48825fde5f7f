package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Estados de aprovação de uma resposta. Apenas respostas aprovadas
// contam para o saldo de pontos do cliente.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Answer representa a resposta a uma pergunta individual. O valor é um escalar
// opaco (string ou número); respostas de múltipla escolha não são validadas
// contra as opções declaradas da pergunta (ver DESIGN.md).
type Answer struct {
	QuestionID string      `json:"question_id"`
	Value      interface{} `json:"value"`
}

// AnswerList é a lista ordenada de respostas, persistida como jsonb
type AnswerList []Answer

// Value serializa a lista para o banco.
func (a AnswerList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan desserializa a lista vinda do banco.
func (a *AnswerList) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("tipo inesperado para AnswerList: %T", value)
	}
}

// Response representa uma submissão de pesquisa no razão de recompensas.
// Depois de criada, só o estado de aprovação muda; as respostas nunca são editadas.
type Response struct {
	ResponseID      string     `json:"response_id" gorm:"primaryKey;column:response_id;type:uuid"`
	SurveyID        string     `json:"survey_id" gorm:"column:survey_id;type:uuid"`
	BusinessID      string     `json:"business_id" gorm:"column:business_id;type:uuid"`
	CustomerID      string     `json:"customer_id,omitempty" gorm:"column:customer_id"`
	RespondentName  string     `json:"respondent_name,omitempty" gorm:"column:respondent_name"`
	RespondentEmail string     `json:"respondent_email,omitempty" gorm:"column:respondent_email"`
	Answers         AnswerList `json:"answers" gorm:"column:answers;type:jsonb"`
	RewardPoints    int        `json:"reward_points" gorm:"column:reward_points"`
	ApprovalState   string     `json:"approval_state" gorm:"column:approval_state"`
	ReviewedBy      string     `json:"reviewed_by,omitempty" gorm:"column:reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty" gorm:"column:reviewed_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at"`
}

// IsAttributed indica se a resposta foi atribuída a um cliente conhecido.
func (r *Response) IsAttributed() bool {
	return r.CustomerID != ""
}
