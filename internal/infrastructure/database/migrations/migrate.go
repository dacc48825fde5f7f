package migrations

import (
	"github.com/opinamais/opina-api/internal/domain/entities"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Business{},
		&entities.Survey{},
		&entities.AccessToken{},
		&entities.Response{},
		&entities.Customer{},
	)
}
