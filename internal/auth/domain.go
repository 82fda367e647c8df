package auth

import "github.com/medbill/medbill/internal/shared"

// LoginRequest starts a login; a successful password check mails an OTP.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// VerifyOTPRequest completes a login.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" label:"OTP" validate:"required,numeric,len=6"`
}

// ForgotPasswordRequest asks for a reset OTP.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password using a mailed OTP.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" label:"OTP" validate:"required,numeric,len=6"`
	NewPassword string `json:"newPassword" label:"new password" validate:"required,min=6,max=64"`
}

// ChangePasswordRequest rotates the password of the signed in user.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" label:"old password" validate:"required,min=6"`
	NewPassword string `json:"newPassword" label:"new password" validate:"required,min=6,max=64"`
}

// Identity is the public view of the authenticated principal.
type Identity struct {
	ID   int64       `json:"_id"`
	Role shared.Role `json:"role"`
}

// Session is returned once the OTP has been verified.
type Session struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}
