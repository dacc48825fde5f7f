package entities

import (
	"time"
)

// Business representa uma empresa dona de pesquisas no sistema
type Business struct {
	BusinessID string    `json:"business_id" gorm:"primaryKey;column:business_id;type:uuid"`
	Name       string    `json:"name" gorm:"column:name"`
	Email      string    `json:"email" gorm:"column:email"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}
