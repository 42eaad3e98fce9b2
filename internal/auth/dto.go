package auth

import (
	errors "github.com/orderhub/order-management/internal"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return errors.NewValidationError("email is required", errors.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return errors.NewValidationError("password is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return errors.NewValidationError("refresh_token is required", errors.ErrCodeValidationFailed)
	}
	return nil
}
