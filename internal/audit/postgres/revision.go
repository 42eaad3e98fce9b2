package postgres

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderhub/order-management/internal/audit"
	auditmodel "github.com/orderhub/order-management/internal/core/datamodel/audit"
)

type RevisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) audit.RevisionRepository {
	return &RevisionRepository{db: db}
}

func (r *RevisionRepository) Create(revision *auditmodel.OrderRevision) error {
	return r.db.Create(revision).Error
}

func (r *RevisionRepository) ListByOrderID(orderID uuid.UUID) ([]*auditmodel.OrderRevision, error) {
	var revisions []*auditmodel.OrderRevision
	err := r.db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&revisions).Error
	return revisions, err
}
