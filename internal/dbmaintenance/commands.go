package dbmaintenance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/orderhub/order-management/internal/audit"
	ordermodel "github.com/orderhub/order-management/internal/core/datamodel/order"
)

// OrderStore is the slice of the order repository the maintenance
// commands need.
type OrderStore interface {
	GetByID(id uuid.UUID) (*ordermodel.Order, error)
	Update(order *ordermodel.Order) error
}

// OrderMaintenance holds the per-row processors for order related CSV
// maintenance commands. Each processor propagates errors so the runner can
// tally the row as failed.
type OrderMaintenance struct {
	orders    OrderStore
	revisions *audit.Service
	logger    *slog.Logger
}

func NewOrderMaintenance(orders OrderStore, revisions *audit.Service, logger *slog.Logger) *OrderMaintenance {
	return &OrderMaintenance{
		orders:    orders,
		revisions: revisions,
		logger:    logger,
	}
}

// UpdateBillingEmail processes rows of shape {id, billing_email}.
func (m *OrderMaintenance) UpdateBillingEmail(ctx context.Context, row map[string]string, opts Options) error {
	order, err := m.loadOrder(row)
	if err != nil {
		return err
	}

	email := strings.TrimSpace(row["billing_email"])
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid billing email %q", email)
	}

	if order.BillingEmail == email {
		m.logger.Warn("billing email already up to date, skipping",
			"order_reference", order.Reference)
		return nil
	}

	if opts.Simulate {
		return nil
	}

	order.BillingEmail = email
	if err := m.orders.Update(order); err != nil {
		return err
	}

	return m.revisions.RecordOrderRevision(
		order.ID, order.Snapshot(), "Billing email maintenance update.", "dbmaintenance")
}

// CancelOrder processes rows of shape {id}, cancelling orders that are
// still in a cancellable status.
func (m *OrderMaintenance) CancelOrder(ctx context.Context, row map[string]string, opts Options) error {
	order, err := m.loadOrder(row)
	if err != nil {
		return err
	}

	if !order.CanBeCancelled() {
		return fmt.Errorf("order %s in status %q cannot be cancelled", order.Reference, order.Status)
	}

	if opts.Simulate {
		return nil
	}

	order.Status = ordermodel.StatusCancelled
	if err := m.orders.Update(order); err != nil {
		return err
	}

	return m.revisions.RecordOrderRevision(
		order.ID, order.Snapshot(), "Order cancelled by maintenance command.", "dbmaintenance")
}

func (m *OrderMaintenance) loadOrder(row map[string]string) (*ordermodel.Order, error) {
	id, err := uuid.Parse(strings.TrimSpace(row["id"]))
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", row["id"], err)
	}

	order, err := m.orders.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("order %s not found: %w", id, err)
	}
	return order, nil
}
