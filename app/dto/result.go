package dto

type RegisterResult struct {
	AccountID string
}

type LoginResult struct {
	Token string
}

type ForgotPasswordResult struct {
	ResetToken string
}
