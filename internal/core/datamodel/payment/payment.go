package payment

import (
	"time"

	"github.com/google/uuid"
)

// Gateway session statuses mirror the states GOV.UK Pay reports for a
// payment. The first three are in-progress; the rest are terminal and,
// once reached, never change again.
const (
	SessionStatusCreated   = "created"
	SessionStatusStarted   = "started"
	SessionStatusSubmitted = "submitted"
	SessionStatusSuccess   = "success"
	SessionStatusFailed    = "failed"
	SessionStatusCancelled = "cancelled"
	SessionStatusError     = "error"
)

// InProgressSessionStatuses is the set used for optimistic status guards:
// a session may only leave one of these states once.
var InProgressSessionStatuses = []string{
	SessionStatusCreated,
	SessionStatusStarted,
	SessionStatusSubmitted,
}

// Payment methods.
const (
	MethodCard   = "card"
	MethodBACS   = "bacs"
	MethodManual = "manual"
)

// PaymentGatewaySession mirrors one attempt to collect payment for an
// order via the external gateway. Sessions are kept forever for audit;
// they are never deleted.
type PaymentGatewaySession struct {
	ID      uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	OrderID uuid.UUID `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	// GOVUKPaymentID is assigned by the gateway when the session is
	// opened and never mutated afterwards.
	GOVUKPaymentID string    `gorm:"column:govuk_payment_id;not null" json:"govuk_payment_id"`
	Status         string    `gorm:"column:status;not null;default:created" json:"status"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;default:now()" json:"updated_at"`
}

func (PaymentGatewaySession) TableName() string {
	return "payment_gateway_sessions"
}

// IsFinished reports whether the session is in a terminal state.
func (s *PaymentGatewaySession) IsFinished() bool {
	switch s.Status {
	case SessionStatusSuccess, SessionStatusFailed, SessionStatusCancelled, SessionStatusError:
		return true
	}
	return false
}

// Payment records money received for an order. Exactly one is created per
// gateway session that reaches the success state, inside the same
// transaction that marks the order paid.
type Payment struct {
	ID                    uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	OrderID               uuid.UUID `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	Amount                int64     `gorm:"column:amount;not null" json:"amount"`
	Method                string    `gorm:"column:method;not null" json:"method"`
	ReceivedOn            time.Time `gorm:"column:received_on;type:date;not null" json:"received_on"`
	CardholderName        string    `gorm:"column:cardholder_name" json:"cardholder_name"`
	CardBrand             string    `gorm:"column:card_brand" json:"card_brand"`
	BillingEmail          string    `gorm:"column:billing_email" json:"billing_email"`
	BillingAddress1       string    `gorm:"column:billing_address_1" json:"billing_address_1"`
	BillingAddress2       string    `gorm:"column:billing_address_2" json:"billing_address_2"`
	BillingAddressTown    string    `gorm:"column:billing_address_town" json:"billing_address_town"`
	BillingAddressPostcode string   `gorm:"column:billing_address_postcode" json:"billing_address_postcode"`
	BillingAddressCountry string    `gorm:"column:billing_address_country" json:"billing_address_country"`
	CreatedAt             time.Time `gorm:"column:created_at;default:now()" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
