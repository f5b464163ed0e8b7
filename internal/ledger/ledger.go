// Package ledger keeps the append-oriented record of join attempts.
// Requests are never deduplicated or deleted; the same (game, user) pair may
// accumulate any number of rows, and only the status of a row changes.
package ledger

import (
	"errors"
	"fmt"

	"matchday/backend/internal/database"
	"matchday/backend/internal/models"

	"gorm.io/gorm"
)

// Ledger records join attempts and their decisions.
type Ledger struct {
	db *gorm.DB
}

// New returns a Ledger backed by db.
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Submit appends a new pending request for the given game and requester.
// Both the game and the requester must exist.
func (l *Ledger) Submit(gameID, requesterID uint) (models.JoinRequest, error) {
	var game models.Game
	if err := l.db.Select("id").First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.JoinRequest{}, fmt.Errorf("game %d: %w", gameID, database.ErrNotFound)
		}
		return models.JoinRequest{}, err
	}

	var user models.User
	if err := l.db.Select("id").First(&user, requesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.JoinRequest{}, fmt.Errorf("user %d: %w", requesterID, database.ErrNotFound)
		}
		return models.JoinRequest{}, err
	}

	request := models.JoinRequest{
		GameID: gameID,
		UserID: requesterID,
		Status: models.StatusPending,
	}
	if err := l.db.Create(&request).Error; err != nil {
		return models.JoinRequest{}, err
	}

	return request, nil
}

// ListForGame returns every request for a game, oldest first, with the
// requester loaded for display to the owner.
func (l *Ledger) ListForGame(gameID uint) ([]models.JoinRequest, error) {
	var requests []models.JoinRequest
	err := l.db.Preload("User").
		Where("game_id = ?", gameID).
		Order("id ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// StatusFor projects the current status for a (game, requester) pair: the
// status of the most recently created matching row, with insertion order
// breaking ties. When no row exists the projection defaults to pending.
func (l *Ledger) StatusFor(gameID, requesterID uint) (models.RequestStatus, error) {
	var request models.JoinRequest
	err := l.db.Where("game_id = ? AND user_id = ?", gameID, requesterID).
		Order("id DESC").
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StatusPending, nil
	}
	if err != nil {
		return "", err
	}
	return request.Status, nil
}

// UpdateStatus overwrites the status of a request. The status must be one of
// the known values, but transitions between them are unrestricted so an
// owner can re-decide (e.g. undo an accept).
func (l *Ledger) UpdateStatus(requestID uint, status models.RequestStatus) error {
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, database.ErrValidation)
	}

	var request models.JoinRequest
	if err := l.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("request %d: %w", requestID, database.ErrNotFound)
		}
		return err
	}

	return l.db.Model(&request).Update("status", status).Error
}
