package dto

// RegisterRequest is the payload for account registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	FullName string `json:"fullName" binding:"required" example:"Ayşe Yılmaz"`
	Role     string `json:"role" binding:"required,oneof=student recruiter" example:"student"`
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// TokenResponse carries the issued access token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"3600"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}
