package entity

import (
	"time"
)

// Roles a user can hold. Publishers own courses; admins manage users.
const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// User is the aggregate root for the user directory.
// Passwords are stored as bcrypt hashes in Password field.
// The follower set is denormalized into user_followers rows and kept in sync
// by the follow workflow on acceptance.
type User struct {
	ID         string
	Email      string
	Password   string
	Name       string
	Phone      string
	Role       string
	AvatarURL  string
	VerifyPin  string
	IsVerified bool
	IsBanned   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserRef is the public subset of a user embedded in enriched results
// (pending follow requests, notification senders, course enrolments).
type UserRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar_url,omitempty"`
}

// Ref returns the public projection of u.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Avatar: u.AvatarURL}
}
