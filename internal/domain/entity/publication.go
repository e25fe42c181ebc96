package entity

import (
	"time"
)

type PublicationType string

const (
	PublicationTypeProduct PublicationType = "product"
	PublicationTypeService PublicationType = "service"
)

func (t PublicationType) Valid() bool {
	return t == PublicationTypeProduct || t == PublicationTypeService
}

// Publication is a listing. The owner fields are a snapshot taken when the
// listing is created and are not refreshed when the profile changes.
type Publication struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto,omitempty"`

	Type        PublicationType `json:"type"`
	Category    string          `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Photo       string          `json:"photo,omitempty"`
	Location    *Location       `json:"location,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	Active    bool      `json:"active"`
}

type Category struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Type PublicationType `json:"type"`
	Icon string          `json:"icon,omitempty"`
}
