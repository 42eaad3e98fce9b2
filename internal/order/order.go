package order

import (
	"github.com/google/uuid"

	ordermodel "github.com/orderhub/order-management/internal/core/datamodel/order"
)

// RepositoryAPI defines the data access methods for orders.
type RepositoryAPI interface {
	Create(order *ordermodel.Order) error
	GetByID(id uuid.UUID) (*ordermodel.Order, error)
	GetByReference(reference string) (*ordermodel.Order, error)
	List(limit, offset int) ([]*ordermodel.Order, error)
	Update(order *ordermodel.Order) error
}

// ServiceAPI is the surface the HTTP handler depends on.
type ServiceAPI interface {
	CreateOrder(dto CreateOrderDTO, createdBy string) (*ordermodel.Order, error)
	GetOrder(id uuid.UUID) (*ordermodel.Order, error)
	ListOrders(limit, offset int) ([]*ordermodel.Order, error)
	AcceptQuote(id uuid.UUID, actor string) (*ordermodel.Order, error)
	CancelOrder(id uuid.UUID, actor string) (*ordermodel.Order, error)
}
