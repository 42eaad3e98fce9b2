package reference

import (
	"log/slog"

	"github.com/google/uuid"

	referencemodel "github.com/orderhub/order-management/internal/core/datamodel/reference"
)

// RepositoryAPI provides read access to the company and contact label
// tables referenced by orders.
type RepositoryAPI interface {
	GetCompany(id uuid.UUID) (*referencemodel.Company, error)
	GetContact(id uuid.UUID) (*referencemodel.Contact, error)
}

// Service resolves entity references to display names. Lookups that fail
// for any reason report "not found" rather than erroring, so diff
// rendering can fall back to the raw value.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CompanyName(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	company, err := s.repo.GetCompany(parsed)
	if err != nil {
		return "", false
	}
	return company.Name, true
}

func (s *Service) ContactName(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	contact, err := s.repo.GetContact(parsed)
	if err != nil {
		return "", false
	}
	return contact.Name, true
}
