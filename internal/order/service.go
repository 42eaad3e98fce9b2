package order

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	errors "github.com/orderhub/order-management/internal"
	"github.com/orderhub/order-management/internal/audit"
	ordermodel "github.com/orderhub/order-management/internal/core/datamodel/order"
)

// Service handles order lifecycle logic. Every mutation records a
// revision snapshot so the history endpoint can show what changed.
type Service struct {
	repo      RepositoryAPI
	revisions *audit.Service
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, revisions *audit.Service, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		revisions: revisions,
		logger:    logger,
	}
}

func (s *Service) CreateOrder(dto CreateOrderDTO, createdBy string) (*ordermodel.Order, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("order validation failed", "error", err)
		return nil, err
	}

	reference := dto.Reference
	if reference == "" {
		reference = generateReference()
	}

	order := &ordermodel.Order{
		ID:           uuid.New(),
		Reference:    reference,
		Status:       ordermodel.StatusDraft,
		BillingEmail: dto.BillingEmail,
		VATStatus:    dto.VATStatus,
		TotalCost:    dto.TotalCost,
	}
	if dto.CompanyID != "" {
		id, _ := uuid.Parse(dto.CompanyID)
		order.CompanyID = &id
	}
	if dto.ContactID != "" {
		id, _ := uuid.Parse(dto.ContactID)
		order.ContactID = &id
	}

	if err := s.repo.Create(order); err != nil {
		s.logger.Error("failed to create order", "error", err, "reference", reference)
		return nil, err
	}

	if err := s.revisions.RecordOrderRevision(order.ID, order.Snapshot(), "Order created.", createdBy); err != nil {
		s.logger.Error("failed to record creation revision", "error", err, "order_id", order.ID)
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"reference", order.Reference,
		"total_cost", order.TotalCost)

	return order, nil
}

func (s *Service) GetOrder(id uuid.UUID) (*ordermodel.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get order", "error", err, "order_id", id)
		return nil, errors.ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) ListOrders(limit, offset int) ([]*ordermodel.Order, error) {
	return s.repo.List(limit, offset)
}

// AcceptQuote moves the order into the state where payment can be taken.
func (s *Service) AcceptQuote(id uuid.UUID, actor string) (*ordermodel.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrOrderNotFound
	}

	switch order.Status {
	case ordermodel.StatusDraft, ordermodel.StatusQuoteAwaitingAcceptance:
	default:
		s.logger.Warn("cannot accept quote in current status",
			"order_id", id, "status", order.Status)
		return nil, errors.ErrInvalidOrderStatus
	}

	order.Status = ordermodel.StatusQuoteAccepted
	if err := s.repo.Update(order); err != nil {
		s.logger.Error("failed to accept quote", "error", err, "order_id", id)
		return nil, err
	}

	if err := s.revisions.RecordOrderRevision(order.ID, order.Snapshot(), "Quote accepted.", actor); err != nil {
		s.logger.Error("failed to record revision", "error", err, "order_id", id)
	}

	s.logger.Info("quote accepted", "order_id", id, "reference", order.Reference)
	return order, nil
}

func (s *Service) CancelOrder(id uuid.UUID, actor string) (*ordermodel.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrOrderNotFound
	}

	if !order.CanBeCancelled() {
		s.logger.Warn("cannot cancel order in current status",
			"order_id", id, "status", order.Status)
		return nil, errors.ErrInvalidOrderStatus
	}

	order.Status = ordermodel.StatusCancelled
	if err := s.repo.Update(order); err != nil {
		s.logger.Error("failed to cancel order", "error", err, "order_id", id)
		return nil, err
	}

	if err := s.revisions.RecordOrderRevision(order.ID, order.Snapshot(), "Order cancelled.", actor); err != nil {
		s.logger.Error("failed to record revision", "error", err, "order_id", id)
	}

	s.logger.Info("order cancelled", "order_id", id, "reference", order.Reference)
	return order, nil
}

func generateReference() string {
	id := uuid.New().String()
	return fmt.Sprintf("ORD-%s", strings.ToUpper(id[:8]))
}
