package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
)

type statusRepository struct {
	db *gorm.DB
}

// NewStatusRepository builds a repository for the order status
// reference table.
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) WithTx(tx *gorm.DB) StatusRepository {
	if tx == nil {
		return r
	}
	return &statusRepository{db: tx}
}

func (r *statusRepository) Create(ctx context.Context, status *models.OrderStatus) (*models.OrderStatus, error) {
	if err := r.db.WithContext(ctx).Create(status).Error; err != nil {
		return nil, err
	}
	return status, nil
}

func (r *statusRepository) FindByName(ctx context.Context, name string) (*models.OrderStatus, error) {
	var status models.OrderStatus
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) List(ctx context.Context) ([]models.OrderStatus, error) {
	var statuses []models.OrderStatus
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}
