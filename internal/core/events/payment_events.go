package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentCompleted = "payment.completed"
	EventTypeSessionCancelled = "payment.session_cancelled"
)

type PaymentCompletedEvent struct {
	BaseEvent
	OrderID        string `json:"order_id"`
	OrderReference string `json:"order_reference"`
	SessionID      string `json:"session_id"`
	Amount         int64  `json:"amount"`
	BillingEmail   string `json:"billing_email"`
}

func NewPaymentCompletedEvent(orderID, orderReference, sessionID string, amount int64, billingEmail string) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":        orderID,
				"order_reference": orderReference,
				"session_id":      sessionID,
				"amount":          amount,
			},
		},
		OrderID:        orderID,
		OrderReference: orderReference,
		SessionID:      sessionID,
		Amount:         amount,
		BillingEmail:   billingEmail,
	}
}

type SessionCancelledEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id"`
}

func NewSessionCancelledEvent(orderID, sessionID string) *SessionCancelledEvent {
	return &SessionCancelledEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSessionCancelled,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":   orderID,
				"session_id": sessionID,
			},
		},
		OrderID:   orderID,
		SessionID: sessionID,
	}
}
