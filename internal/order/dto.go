package order

import (
	"github.com/orderhub/order-management/internal/core/common/validation"
)

type CreateOrderDTO struct {
	Reference    string `json:"reference"`
	CompanyID    string `json:"company_id"`
	ContactID    string `json:"contact_id"`
	BillingEmail string `json:"billing_email"`
	VATStatus    string `json:"vat_status"`
	TotalCost    int64  `json:"total_cost"`
}

func (d *CreateOrderDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("total_cost", d.TotalCost).Required().MinInt(1, "INVALID_AMOUNT")
	if d.CompanyID != "" {
		validator.Field("company_id", d.CompanyID).UUID()
	}
	if d.ContactID != "" {
		validator.Field("contact_id", d.ContactID).UUID()
	}
	if d.BillingEmail != "" {
		validator.Field("billing_email", d.BillingEmail).Email()
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
