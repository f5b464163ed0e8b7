package handler

import (
	"log"
	"net/http"

	"matchday/backend/internal/capacity"
	"matchday/backend/internal/ledger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler carries the storage handle and the core components for the HTTP
// surface. It is built once at wiring time.
type Handler struct {
	db       *gorm.DB
	ledger   *ledger.Ledger
	capacity *capacity.Evaluator
}

// New builds a Handler and its core components on top of db.
func New(db *gorm.DB) *Handler {
	return &Handler{
		db:       db,
		ledger:   ledger.New(db),
		capacity: capacity.New(db),
	}
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// storageError logs the underlying cause for operators and reports a generic
// failure to the caller. Storage errors are never retried here.
func storageError(c *gin.Context, action string, err error) {
	log.Printf("%s: %v", action, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
}
