package auth

import "time"

// User is the authenticated account's profile record.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RegisterInput captures the fields sent to the register endpoint.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput captures the credentials sent to the login endpoint.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput carries a profile edit. Empty fields are left unchanged
// server-side.
type UpdateProfileInput struct {
	Name  string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Bio   string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

// sessionEnvelope is the token-bearing response shape shared by register,
// login, and refresh.
type sessionEnvelope struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type userEnvelope struct {
	User User `json:"user"`
}
