// Package capacity derives game occupancy from the join-request ledger.
package capacity

import (
	"errors"
	"fmt"

	"matchday/backend/internal/database"
	"matchday/backend/internal/models"

	"gorm.io/gorm"
)

// OwnerSlots is the number of slots the owner implicitly occupies in every
// game. There is no participant row for the owner; the count is a convention.
const OwnerSlots = 1

// Report is the derived occupancy of a game. It is recomputed on every read
// and never persisted.
type Report struct {
	AcceptedCount int  `json:"accepted_count"`
	TeamLength    int  `json:"team_length"`
	IsFull        bool `json:"is_full"`
}

// Evaluator computes capacity reports.
type Evaluator struct {
	db *gorm.DB
}

// New returns an Evaluator backed by db.
func New(db *gorm.DB) *Evaluator {
	return &Evaluator{db: db}
}

// Evaluate reports the occupancy of a game: accepted requests plus the owner
// slot, against the declared team length. A concurrent decision may commit
// while this reads; callers wanting the post-decision count must re-query.
func (e *Evaluator) Evaluate(gameID uint) (Report, error) {
	var game models.Game
	if err := e.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Report{}, fmt.Errorf("game %d: %w", gameID, database.ErrNotFound)
		}
		return Report{}, err
	}

	var accepted int64
	err := e.db.Model(&models.JoinRequest{}).
		Where("game_id = ? AND status = ?", gameID, models.StatusAccepted).
		Count(&accepted).Error
	if err != nil {
		return Report{}, err
	}

	count := int(accepted) + OwnerSlots
	return Report{
		AcceptedCount: count,
		TeamLength:    game.TeamLength,
		IsFull:        count >= game.TeamLength,
	}, nil
}
