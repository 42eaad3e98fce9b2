package postgres

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	referencemodel "github.com/orderhub/order-management/internal/core/datamodel/reference"
	"github.com/orderhub/order-management/internal/reference"
)

type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) reference.RepositoryAPI {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) GetCompany(id uuid.UUID) (*referencemodel.Company, error) {
	var company referencemodel.Company
	if err := r.db.First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *ReferenceRepository) GetContact(id uuid.UUID) (*referencemodel.Contact, error) {
	var contact referencemodel.Contact
	if err := r.db.First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}
