package session

import "time"

const AggregateType = "Session"

const (
	EventUserLoggedIn        = "UserLoggedIn"
	EventUserRegistered      = "UserRegistered"
	EventUserProfileUpdated  = "UserProfileUpdated"
	EventUserPasswordChanged = "UserPasswordChanged"
	EventUserLoggedOut       = "UserLoggedOut"
)

type UserLoggedIn struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

type UserRegistered struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

type UserProfileUpdated struct {
	UserID    string    `json:"user_id"`
	Fields    []string  `json:"fields"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPasswordChanged never carries the password or its hash.
type UserPasswordChanged struct {
	UserID    string    `json:"user_id"`
	ChangedAt time.Time `json:"changed_at"`
}

type UserLoggedOut struct {
	UserID      string    `json:"user_id"`
	LoggedOutAt time.Time `json:"logged_out_at"`
}
