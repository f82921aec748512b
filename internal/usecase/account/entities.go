package account

import "time"

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

type LoginInput struct {
	Email    string
	Password string
}

type AccountDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type SessionDTO struct {
	Account   AccountDTO `json:"account"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}
