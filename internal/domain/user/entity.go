package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	role         Role
	name         string
	status       Status
	createdAt    time.Time
}

func NewUser(email Email, passwordHash string, role Role, name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		name:         name,
		status:       StatusActive,
	}, nil
}

func ReconstructUser(id uuid.UUID, email Email, passwordHash string, role Role, name string, status Status, createdAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		name:         name,
		status:       status,
		createdAt:    createdAt,
	}
}

func (u *User) IsActive() bool {
	return u.status == StatusActive
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) Name() string         { return u.name }
func (u *User) Status() Status       { return u.status }
func (u *User) CreatedAt() time.Time { return u.createdAt }
