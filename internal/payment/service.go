package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	errors "github.com/orderhub/order-management/internal"
	"github.com/orderhub/order-management/internal/core/events"
	ordermodel "github.com/orderhub/order-management/internal/core/datamodel/order"
	paymentmodel "github.com/orderhub/order-management/internal/core/datamodel/payment"
	"github.com/orderhub/order-management/internal/govukpay"
)

// OrderGetter is the slice of the order repository the reconciler needs.
type OrderGetter interface {
	GetByID(id uuid.UUID) (*ordermodel.Order, error)
}

var knownGatewayStatuses = map[string]struct{}{
	paymentmodel.SessionStatusCreated:   {},
	paymentmodel.SessionStatusStarted:   {},
	paymentmodel.SessionStatusSubmitted: {},
	paymentmodel.SessionStatusSuccess:   {},
	paymentmodel.SessionStatusFailed:    {},
	paymentmodel.SessionStatusCancelled: {},
	paymentmodel.SessionStatusError:     {},
}

// Service keeps local payment gateway sessions consistent with the remote
// gateway's authoritative state. It never retries gateway calls; retry
// policy belongs to the caller (the worker's poll loop or the task that
// invoked the refresh).
type Service struct {
	repo    RepositoryAPI
	orders  OrderGetter
	gateway GatewayClient
	bus     *events.EventBus
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, orders OrderGetter, gateway GatewayClient, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		orders:  orders,
		gateway: gateway,
		bus:     bus,
		logger:  logger,
	}
}

// CreateSession opens a payment on the gateway for a payable order and
// mirrors it locally. Any still-in-progress sessions for the same order
// are cancelled first, so at most one session is collectable at a time.
func (s *Service) CreateSession(ctx context.Context, orderID uuid.UUID, returnURL string) (*paymentmodel.PaymentGatewaySession, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, errors.ErrOrderNotFound
	}

	if !order.CanBePaid() {
		s.logger.Warn("order not payable", "order_id", orderID, "status", order.Status)
		return nil, errors.ErrInvalidOrderStatus
	}

	existing, err := s.repo.ListSessionsByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	for _, session := range existing {
		if session.IsFinished() {
			continue
		}
		if err := s.Cancel(ctx, session.ID); err != nil {
			s.logger.Error("failed to cancel ongoing session",
				"session_id", session.ID, "error", err)
			return nil, err
		}
	}

	gwPayment, err := s.gateway.CreatePayment(ctx, govukpay.CreatePaymentRequest{
		Amount:      order.TotalCost,
		Reference:   order.Reference,
		Description: fmt.Sprintf("Payment for order %s", order.Reference),
		ReturnURL:   returnURL,
	})
	if err != nil {
		return nil, err
	}

	session := &paymentmodel.PaymentGatewaySession{
		ID:             uuid.New(),
		OrderID:        orderID,
		GOVUKPaymentID: gwPayment.PaymentID,
		Status:         paymentmodel.SessionStatusCreated,
	}
	if err := s.repo.CreateSession(session); err != nil {
		s.logger.Error("failed to persist gateway session",
			"order_id", orderID, "govuk_payment_id", gwPayment.PaymentID, "error", err)
		return nil, err
	}

	s.logger.Info("payment gateway session created",
		"session_id", session.ID,
		"order_id", orderID,
		"govuk_payment_id", session.GOVUKPaymentID)

	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*paymentmodel.PaymentGatewaySession, error) {
	session, err := s.repo.GetSession(id)
	if err != nil {
		return nil, errors.ErrSessionNotFound
	}
	return session, nil
}

// Refresh re-queries the gateway for the session's authoritative state and
// applies it locally. Terminal sessions are final: no gateway call is made
// and nothing changes. The success transition is atomic: session status,
// order paid status and the Payment record all commit together or not at
// all.
func (s *Service) Refresh(ctx context.Context, sessionID uuid.UUID) (RefreshResult, error) {
	session, err := s.repo.GetSession(sessionID)
	if err != nil {
		return RefreshResult{}, errors.ErrSessionNotFound
	}

	if session.IsFinished() {
		return RefreshResult{Changed: false, Status: session.Status}, nil
	}

	gwPayment, err := s.gateway.GetPayment(ctx, session.GOVUKPaymentID)
	if err != nil {
		return RefreshResult{}, err
	}

	newStatus := gwPayment.State.Status
	if _, known := knownGatewayStatuses[newStatus]; !known {
		return RefreshResult{}, errors.NewGatewayError(
			fmt.Sprintf("gateway reported unknown status %q", newStatus), nil)
	}

	if newStatus == session.Status {
		return RefreshResult{Changed: false, Status: session.Status}, nil
	}

	if newStatus == paymentmodel.SessionStatusSuccess {
		return s.completeSuccess(ctx, session, gwPayment)
	}

	if err := s.repo.UpdateSessionStatus(session.ID, newStatus); err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.Code == errors.ErrCodeSessionFinished {
			// A concurrent refresh finished the session first; it is
			// final now, nothing left for this call to do.
			s.logger.Info("session finished concurrently, skipping update",
				"session_id", session.ID)
			return RefreshResult{Changed: false, Status: session.Status}, nil
		}
		return RefreshResult{}, err
	}

	s.logger.Info("session status updated",
		"session_id", session.ID,
		"from", session.Status,
		"to", newStatus)

	return RefreshResult{Changed: true, Status: newStatus}, nil
}

func (s *Service) completeSuccess(ctx context.Context, session *paymentmodel.PaymentGatewaySession, gwPayment *govukpay.Payment) (RefreshResult, error) {
	receivedOn, err := gwPayment.ReceivedOn()
	if err != nil {
		return RefreshResult{}, errors.NewGatewayError("malformed gateway response", err)
	}

	record := buildPaymentRecord(session.OrderID, gwPayment, receivedOn)

	order, err := s.repo.CompleteSuccess(session.ID, record, receivedOn)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.Code == errors.ErrCodeSessionFinished {
			s.logger.Info("session finished concurrently, success side effects already applied",
				"session_id", session.ID)
			return RefreshResult{Changed: false, Status: session.Status}, nil
		}
		s.logger.Error("success transition failed, no partial state persisted",
			"session_id", session.ID, "error", err)
		return RefreshResult{}, err
	}

	s.logger.Info("payment received",
		"session_id", session.ID,
		"order_id", session.OrderID,
		"order_reference", order.Reference,
		"amount", record.Amount)

	if s.bus != nil {
		event := events.NewPaymentCompletedEvent(
			order.ID.String(), order.Reference, session.ID.String(), record.Amount, record.BillingEmail)
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish payment completed event", "error", err)
		}
	}

	return RefreshResult{Changed: true, Status: paymentmodel.SessionStatusSuccess}, nil
}

// Cancel asks the gateway to cancel a non-terminal session and then
// refreshes to pull the resulting state. If the gateway acknowledged the
// cancel but the follow-up refresh fails, the remote payment is cancelled
// while the local record stays stale; the error still propagates so the
// caller can alert, and a later refresh converges the local state.
func (s *Service) Cancel(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.repo.GetSession(sessionID)
	if err != nil {
		return errors.ErrSessionNotFound
	}

	if session.IsFinished() {
		return errors.ErrSessionFinished
	}

	if err := s.gateway.CancelPayment(ctx, session.GOVUKPaymentID); err != nil {
		return err
	}

	if _, err := s.Refresh(ctx, sessionID); err != nil {
		s.logger.Error("cancel acknowledged but refresh failed, session left stale",
			"session_id", sessionID, "error", err)
		return err
	}

	if s.bus != nil {
		event := events.NewSessionCancelledEvent(session.OrderID.String(), session.ID.String())
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish session cancelled event", "error", err)
		}
	}

	return nil
}

func (s *Service) ListOrderPayments(ctx context.Context, orderID uuid.UUID) ([]*paymentmodel.Payment, error) {
	if _, err := s.orders.GetByID(orderID); err != nil {
		return nil, errors.ErrOrderNotFound
	}
	return s.repo.ListPaymentsByOrderID(orderID)
}

// RefreshInProgress refreshes every in-progress session older than the
// given cutoff. Individual failures are logged and counted, never fatal;
// the poll loop retries them on its next tick.
func (s *Service) RefreshInProgress(ctx context.Context, olderThan time.Time, limit int) (refreshed, failed int) {
	sessions, err := s.repo.ListInProgressSessions(olderThan, limit)
	if err != nil {
		s.logger.Error("failed to list in-progress sessions", "error", err)
		return 0, 0
	}

	for _, session := range sessions {
		if ctx.Err() != nil {
			return refreshed, failed
		}
		if _, err := s.Refresh(ctx, session.ID); err != nil {
			s.logger.Error("session refresh failed",
				"session_id", session.ID, "error", err)
			failed++
			continue
		}
		refreshed++
	}

	return refreshed, failed
}

func buildPaymentRecord(orderID uuid.UUID, gwPayment *govukpay.Payment, receivedOn time.Time) *paymentmodel.Payment {
	record := &paymentmodel.Payment{
		ID:           uuid.New(),
		OrderID:      orderID,
		Amount:       gwPayment.Amount,
		Method:       paymentmodel.MethodManual,
		ReceivedOn:   receivedOn,
		BillingEmail: gwPayment.Email,
	}

	if details := gwPayment.CardDetails; details != nil {
		record.Method = paymentmodel.MethodCard
		record.CardholderName = details.CardholderName
		record.CardBrand = details.CardBrand
		record.BillingAddress1 = details.BillingAddress.Line1
		record.BillingAddress2 = details.BillingAddress.Line2
		record.BillingAddressTown = details.BillingAddress.City
		record.BillingAddressPostcode = details.BillingAddress.Postcode
		record.BillingAddressCountry = details.BillingAddress.Country
	}

	return record
}
