// Package model defines database models
package model

import "time"

type User struct {
	Email        string `gorm:"primaryKey" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Quote allowance counters. QuotesRemaining goes down by one for every
	// quote added and back up by one for every quote deleted. TotalQuotes is
	// the ceiling assigned at registration and never changes afterwards.
	QuotesRemaining int `gorm:"not null" json:"remainingQuotes"`
	TotalQuotes     int `gorm:"not null" json:"totalQuotes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	LastLogin time.Time `json:"lastLogin"`

	Quotes []Quote `gorm:"foreignKey:UserEmail;references:Email" json:"-"`
}
