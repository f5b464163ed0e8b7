package models

import "gorm.io/gorm"

// ContactMessage stores a submission from the contact-us form.
// UserID is set when the sender was logged in at the time.
type ContactMessage struct {
	gorm.Model
	Name    string `gorm:"size:255;not null"`
	Email   string `gorm:"size:255;not null"`
	Message string `gorm:"not null"`
	UserID  *uint  `gorm:"index"`
}
