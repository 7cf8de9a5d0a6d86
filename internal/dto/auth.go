package dto

// RegisterRequest is the sign-up form sent to POST /register/.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by /register/ and /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body. Detail is usually a string but validation failures
// may carry a list of objects, so it is kept raw-ish.
type ErrorResponse struct {
	Detail  any    `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}
