package models

// User is the identity persisted under the "user" storage key.
// It mirrors the login response minus the token type.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Token       string `json:"token"`
}

// AuthResponse is the body of a successful POST /api/auth/login
type AuthResponse struct {
	Token       string `json:"token"`
	Type        string `json:"type"`
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// ToUser converts a login response to the stored identity
func (r *AuthResponse) ToUser() User {
	return User{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Token:       r.Token,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// ProfileUpdate is a partial identity patch. Empty fields are left untouched
// when merged into the session.
type ProfileUpdate struct {
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Apply merges the patch into u
func (p ProfileUpdate) Apply(u User) User {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.PhoneNumber != "" {
		u.PhoneNumber = p.PhoneNumber
	}
	return u
}
