package repository

import (
	"context"
	"errors"

	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/pkg/apperr"
	"gorm.io/gorm"
)

// CustomerRepository implementa repositories.CustomerRepository sobre GORM
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository cria uma nova instância de CustomerRepository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return apperr.NewInternal("erro ao criar cliente", err)
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *entities.Customer) error {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return apperr.NewInternal("erro ao atualizar cliente", err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID string) (*entities.Customer, error) {
	var customer entities.Customer
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("cliente não encontrado")
		}
		return nil, apperr.NewInternal("erro ao buscar cliente", err)
	}
	return &customer, nil
}

// Contenção de substring nos dois sentidos, ignorando maiúsculas. Os guardas de
// string vazia impedem que um campo em branco case com qualquer registro.
const approxIdentitySQL = `(email <> '' AND @email <> '' AND (email ILIKE '%' || @email || '%' OR @email ILIKE '%' || email || '%'))
OR (name <> '' AND @name <> '' AND (name ILIKE '%' || @name || '%' OR @name ILIKE '%' || name || '%'))`

func (r *CustomerRepository) FindByApproxIdentity(ctx context.Context, name, email string) (*entities.Customer, error) {
	if name == "" && email == "" {
		return nil, nil
	}
	var customer entities.Customer
	err := r.db.WithContext(ctx).
		Where(approxIdentitySQL, map[string]interface{}{"name": name, "email": email}).
		Order("created_at asc").
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.NewInternal("erro na busca aproximada de cliente", err)
	}
	return &customer, nil
}

func (r *CustomerRepository) UpdatePointsBalance(ctx context.Context, customerID string, balance int) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Customer{}).
		Where("customer_id = ?", customerID).
		UpdateColumn("points_balance", balance)
	if result.Error != nil {
		return apperr.NewInternal("erro ao gravar saldo de pontos", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFound("cliente não encontrado")
	}
	return nil
}
