package http

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries only the new password; the token rides in the
// URL path.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}
