package models

import "gorm.io/gorm"

// RequestStatus defines the state of a join request.
type RequestStatus string

const (
	// StatusPending means the request is awaiting the owner's decision.
	// It is also the projected status when no request exists yet.
	StatusPending RequestStatus = "pending"

	// StatusAccepted means the owner granted the request a slot.
	StatusAccepted RequestStatus = "accepted"

	// StatusRejected means the owner turned the request down.
	StatusRejected RequestStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// JoinRequest records one user's attempt to join a game. The table is
// append-only: the same (game, user) pair may appear any number of times,
// and only Status is mutated in place by the owner's decision.
type JoinRequest struct {
	gorm.Model
	GameID uint          `gorm:"not null;index"`
	UserID uint          `gorm:"not null;index"`
	Status RequestStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	Game Game `gorm:"foreignKey:GameID"`
	User User `gorm:"foreignKey:UserID"`
}
