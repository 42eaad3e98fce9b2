package postgres

import (
	"gorm.io/gorm"

	authpkg "github.com/orderhub/order-management/internal/auth"
	usermodel "github.com/orderhub/order-management/internal/core/datamodel/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) authpkg.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(email string) (*usermodel.User, error) {
	var user usermodel.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id string) (*usermodel.User, error) {
	var user usermodel.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
