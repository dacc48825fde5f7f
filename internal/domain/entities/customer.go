package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList é uma lista de ids persistida como jsonb
type StringList []string

// Value serializa a lista para o banco.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan desserializa a lista vinda do banco.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("tipo inesperado para StringList: %T", value)
	}
}

// Contains verifica se a lista já contém o id.
func (s StringList) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Customer representa um cliente que responde pesquisas e acumula pontos.
//
// PointsBalance é uma visão materializada recalculada de forma preguiçosa a
// partir do razão de respostas aprovadas — nunca a fonte de verdade.
// CompletedSurveys é informativo, não autoritativo.
type Customer struct {
	CustomerID       string     `json:"customer_id" gorm:"primaryKey;column:customer_id;type:uuid"`
	Name             string     `json:"name" gorm:"column:name"`
	Email            string     `json:"email" gorm:"column:email"`
	PointsBalance    int        `json:"points_balance" gorm:"column:points_balance"`
	CompletedSurveys StringList `json:"completed_surveys" gorm:"column:completed_surveys;type:jsonb"`
	CreatedAt        time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"column:updated_at"`
}
