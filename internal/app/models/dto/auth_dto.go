package dto

// LoginRequest carries login credentials. Identity is a username or an
// email address. Presence is checked in the controller so each missing
// field gets its own message.
type LoginRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MeResponse wraps the current authenticated user
type MeResponse struct {
	User UserResponse `json:"user"`
}
