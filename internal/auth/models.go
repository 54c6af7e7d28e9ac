package auth

import "time"

// Traveler is an account plus its public profile. Verified flips on once the
// profile setup step completes.
type Traveler struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	PasswordHash    string    `json:"-"`
	Bio             string    `json:"bio"`
	AccountType     string    `json:"account_type"`
	College         string    `json:"college"`
	ProfileImageURL string    `json:"profile_image_url"`
	Verified        bool      `json:"verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ProfileSetupRequest completes onboarding. AccountType is student or
// traveler; students name their college.
type ProfileSetupRequest struct {
	AccountType     string `json:"account_type"`
	Bio             string `json:"bio"`
	College         string `json:"college"`
	ProfileImageURL string `json:"profile_image_url"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
