package model

import "time"

type Quote struct {
	ID string `gorm:"primaryKey" json:"id"`

	// Owning user. Never serialized back to clients, the whole response is
	// already scoped to that one user anyway
	UserEmail string `gorm:"not null;index" json:"-"`

	BookSeries string `json:"bookSeries"`
	BookTitle  string `gorm:"not null" json:"bookTitle"`
	Characters string `json:"characters"`
	Quote      string `gorm:"not null" json:"quote"`
	Author     string `gorm:"not null" json:"author"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
