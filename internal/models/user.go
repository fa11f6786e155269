package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the subset of User returned to clients.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}
