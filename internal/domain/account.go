package domain

import "time"

// Account represents a registered or provisioned user identity.
type Account struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName returns the name shown for this account, falling back to
// the email when no display name was set.
func (a *Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}

	return a.Email
}
