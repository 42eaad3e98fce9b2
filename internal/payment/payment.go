package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	ordermodel "github.com/orderhub/order-management/internal/core/datamodel/order"
	paymentmodel "github.com/orderhub/order-management/internal/core/datamodel/payment"
	"github.com/orderhub/order-management/internal/govukpay"
)

// GatewayClient is the slice of the GOV.UK Pay client the reconciler uses.
type GatewayClient interface {
	CreatePayment(ctx context.Context, req govukpay.CreatePaymentRequest) (*govukpay.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*govukpay.Payment, error)
	CancelPayment(ctx context.Context, paymentID string) error
}

// RepositoryAPI defines the data access methods for payment gateway
// sessions and payments.
//
// Status mutations are conditioned on the session still being in progress
// at commit time, so a stale or concurrent refresh can never reopen a
// finished session or duplicate its side effects; such writes return
// internal.ErrSessionFinished.
type RepositoryAPI interface {
	CreateSession(session *paymentmodel.PaymentGatewaySession) error
	GetSession(id uuid.UUID) (*paymentmodel.PaymentGatewaySession, error)
	ListSessionsByOrderID(orderID uuid.UUID) ([]*paymentmodel.PaymentGatewaySession, error)
	ListInProgressSessions(olderThan time.Time, limit int) ([]*paymentmodel.PaymentGatewaySession, error)
	UpdateSessionStatus(id uuid.UUID, status string) error

	// CompleteSuccess applies the success transition as one atomic unit:
	// session to success, owning order marked paid, one Payment record
	// created. Either all three are visible afterwards or none are.
	// Returns the updated order for the caller's post-commit use.
	CompleteSuccess(sessionID uuid.UUID, payment *paymentmodel.Payment, receivedOn time.Time) (*ordermodel.Order, error)

	ListPaymentsByOrderID(orderID uuid.UUID) ([]*paymentmodel.Payment, error)
}

// RefreshResult reports whether a refresh persisted any change and the
// session status after the call.
type RefreshResult struct {
	Changed bool   `json:"changed"`
	Status  string `json:"status"`
}

// ServiceAPI is the surface the HTTP handler and the worker depend on.
type ServiceAPI interface {
	CreateSession(ctx context.Context, orderID uuid.UUID, returnURL string) (*paymentmodel.PaymentGatewaySession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*paymentmodel.PaymentGatewaySession, error)
	Refresh(ctx context.Context, sessionID uuid.UUID) (RefreshResult, error)
	Cancel(ctx context.Context, sessionID uuid.UUID) error
	ListOrderPayments(ctx context.Context, orderID uuid.UUID) ([]*paymentmodel.Payment, error)
	RefreshInProgress(ctx context.Context, olderThan time.Time, limit int) (refreshed, failed int)
}
