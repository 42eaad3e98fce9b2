package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Order statuses. Payment-related transitions only ever move an order
// forward; a paid order never goes back to an earlier status.
const (
	StatusDraft                   = "draft"
	StatusQuoteAwaitingAcceptance = "quote_awaiting_acceptance"
	StatusQuoteAccepted           = "quote_accepted"
	StatusPaid                    = "paid"
	StatusComplete                = "complete"
	StatusCancelled               = "cancelled"
)

type Order struct {
	ID           uuid.UUID  `gorm:"primaryKey;type:uuid" json:"id"`
	Reference    string     `gorm:"column:reference;not null;uniqueIndex" json:"reference"`
	Status       string     `gorm:"column:status;not null;default:draft" json:"status"`
	CompanyID    *uuid.UUID `gorm:"column:company_id;type:uuid" json:"company_id"`
	ContactID    *uuid.UUID `gorm:"column:contact_id;type:uuid" json:"contact_id"`
	BillingEmail string     `gorm:"column:billing_email" json:"billing_email"`
	VATStatus    string     `gorm:"column:vat_status" json:"vat_status"`
	// TotalCost is in pence, matching the amounts the gateway reports.
	TotalCost int64      `gorm:"column:total_cost;not null" json:"total_cost"`
	PaidOn    *time.Time `gorm:"column:paid_on" json:"paid_on"`
	CreatedAt time.Time  `gorm:"column:created_at;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;default:now()" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// CanBePaid reports whether the order is waiting for payment.
func (o *Order) CanBePaid() bool {
	return o.Status == StatusQuoteAccepted
}

// MarkAsPaid transitions the order to paid. It is only legal while the
// quote has been accepted; any other status is a conflict.
func (o *Order) MarkAsPaid(receivedOn time.Time) error {
	if !o.CanBePaid() {
		return fmt.Errorf("order %s in status %q cannot be marked as paid", o.Reference, o.Status)
	}
	o.Status = StatusPaid
	o.PaidOn = &receivedOn
	return nil
}

// CanBeCancelled reports whether the order may still be cancelled.
func (o *Order) CanBeCancelled() bool {
	switch o.Status {
	case StatusDraft, StatusQuoteAwaitingAcceptance, StatusQuoteAccepted:
		return true
	}
	return false
}

// Snapshot flattens the order into a field name to value mapping, the shape
// stored in order revisions and consumed by the audit differ.
func (o *Order) Snapshot() map[string]any {
	snapshot := map[string]any{
		"reference":     o.Reference,
		"status":        o.Status,
		"billing_email": o.BillingEmail,
		"vat_status":    o.VATStatus,
		"total_cost":    o.TotalCost,
	}
	if o.CompanyID != nil {
		snapshot["company_id"] = o.CompanyID.String()
	} else {
		snapshot["company_id"] = nil
	}
	if o.ContactID != nil {
		snapshot["contact_id"] = o.ContactID.String()
	} else {
		snapshot["contact_id"] = nil
	}
	return snapshot
}
