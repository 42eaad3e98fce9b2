package payment

import (
	"github.com/orderhub/order-management/internal/core/common/validation"
)

type CreateSessionDTO struct {
	ReturnURL string `json:"return_url"`
}

func (d *CreateSessionDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("return_url", d.ReturnURL).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
