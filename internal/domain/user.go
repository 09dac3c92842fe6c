package domain

import (
	"context"
	"time"
)

// Role constants. Roles are fixed at creation; there is no role transition.
const (
	RoleHR       = "hr"
	RoleTeamLead = "team_lead_hr"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, username, password, role string) (*User, error)
	Login(ctx context.Context, username, password string) (string, *User, error)
	GetCurrentUser(ctx context.Context, id int64) (*User, error)
}
