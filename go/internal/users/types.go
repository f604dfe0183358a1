package users

// CreateUserRequest represents the data needed to create a new user
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// UpdateUserRequest represents the data that can be updated for a user
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}
