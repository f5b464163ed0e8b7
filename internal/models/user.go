package models

import "gorm.io/gorm"

// User represents a registered player.
type User struct {
	gorm.Model
	Name         string `gorm:"size:255;not null"`
	City         string `gorm:"size:255;not null"`
	ContactNo    string `gorm:"size:50;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
}
