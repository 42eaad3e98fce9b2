package reference

import "github.com/google/uuid"

// Company is a minimal label record referenced by orders. The audit
// renderer resolves company ids to names through these.
type Company struct {
	ID   uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	Name string    `gorm:"column:name;not null" json:"name"`
}

func (Company) TableName() string {
	return "companies"
}

// Contact is a minimal label record referenced by orders.
type Contact struct {
	ID   uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	Name string    `gorm:"column:name;not null" json:"name"`
}

func (Contact) TableName() string {
	return "contacts"
}
