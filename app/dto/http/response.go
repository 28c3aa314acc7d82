package http

// MessageResponse is the canonical response shape: every outcome, success or
// failure, is a JSON object with one human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

type MeResponse struct {
	AccountID  string `json:"account_id"`
	Email      string `json:"email"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"firstname,omitempty"`
	LastName   string `json:"lastname,omitempty"`
	State      string `json:"state,omitempty"`
	City       string `json:"city,omitempty"`
	IsVerified bool   `json:"is_verified"`
}
