package postgres

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	ordermodel "github.com/orderhub/order-management/internal/core/datamodel/order"
	orderpkg "github.com/orderhub/order-management/internal/order"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) orderpkg.RepositoryAPI {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(order *ordermodel.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) GetByID(id uuid.UUID) (*ordermodel.Order, error) {
	var order ordermodel.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) GetByReference(reference string) (*ordermodel.Order, error) {
	var order ordermodel.Order
	if err := r.db.Where("reference = ?", reference).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) List(limit, offset int) ([]*ordermodel.Order, error) {
	var orders []*ordermodel.Order
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) Update(order *ordermodel.Order) error {
	return r.db.Save(order).Error
}
