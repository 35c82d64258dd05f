package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Role               Role      `json:"role"`
	EmailNotifications bool      `json:"emailNotifications"` // preference only, no delivery path yet
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// PublicUser is the trimmed view embedded in the login response.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type RegisterInput struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	Role               *Role  `json:"role"`
	EmailNotifications *bool  `json:"emailNotifications"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult mirrors the login response body: the signed token plus
// the public view of the user.
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	User        PublicUser `json:"user"`
}

// UpdateUserInput carries a partial profile update. Nil fields are
// left unchanged.
type UpdateUserInput struct {
	Name               *string `json:"name"`
	Email              *string `json:"email"`
	EmailNotifications *bool   `json:"emailNotifications"`
}
