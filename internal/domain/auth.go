package domain

import "time"

// Account is a registered identity stored in the accounts collection.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Token represents issued access token metadata.
type Token struct {
	Value     string
	AccountID string
	ExpiresAt time.Time
	IssuedAt  time.Time
}
