package model

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetPasswordRequest finishes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ResetResponse is the body of both reset endpoints. Its shape never depends
// on whether the email matched an account.
type ResetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
