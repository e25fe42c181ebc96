package entity

import (
	"time"
)

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	// Password is only present on records inside the persisted user list.
	Password string `json:"password,omitempty"`

	Photo    string    `json:"photo,omitempty"`
	Location *Location `json:"location,omitempty"`

	Rating        float64   `json:"rating"`
	ExchangeCount int       `json:"exchangeCount"`
	RegisteredAt  time.Time `json:"registeredAt"`
}

// Public returns a copy of the user without the password.
func (u User) Public() User {
	u.Password = ""
	return u
}
