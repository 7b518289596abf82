package account

// SignupRequest represents the signup request body. SecretKey is only sent
// when the caller wants the admin role; any other value (or absence) yields
// a regular user.
type SignupRequest struct {
	ID        string `json:"id"`
	PW        string `json:"pw"`
	Name      string `json:"name"`
	SecretKey string `json:"secret_key,omitempty"`
}

type SignupResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	ID string `json:"id"`
	PW string `json:"pw"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

// ProfileResponse is the self-profile projection. Exactly these three
// fields; the credential hash never leaves the service.
type ProfileResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// DeleteRequest carries the fresh password confirmation required before an
// account is removed.
type DeleteRequest struct {
	Password string `json:"password"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}
