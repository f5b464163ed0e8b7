package models

import (
	"time"

	"gorm.io/gorm"
)

// Game represents a scheduled pickup game created by one user. Games are
// immutable after creation; there is no edit or cancel flow.
type Game struct {
	gorm.Model
	OwnerID     uint      `gorm:"not null;index"`
	SportType   string    `gorm:"size:100;not null"`
	City        string    `gorm:"size:255;not null"`
	TeamLength  int       `gorm:"not null"`
	Date        time.Time `gorm:"type:date;not null"`
	StartTime   string    `gorm:"size:20;not null"`
	Description string    `gorm:"not null"`

	Owner User `gorm:"foreignKey:OwnerID"`
}
