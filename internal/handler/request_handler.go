package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"matchday/backend/internal/database"
	"matchday/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// DecisionInput carries the owner's decision on a request.
type DecisionInput struct {
	Status models.RequestStatus `json:"status" binding:"required" example:"accepted"`
}

// JoinRequestResponse is a request row joined with its requester, for display
// to the game owner.
type JoinRequestResponse struct {
	ID        uint                 `json:"id"`
	GameID    uint                 `json:"game_id"`
	Status    models.RequestStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	Requester RequesterResponse    `json:"requester"`
}

// RequesterResponse identifies who asked to join.
type RequesterResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// JoinedGameResponse annotates a game the caller asked to join with the
// caller's latest status and the live accepted count.
type JoinedGameResponse struct {
	Game          GameResponse         `json:"game"`
	Status        models.RequestStatus `json:"status"`
	AcceptedCount int                  `json:"accepted_count"`
	IsFull        bool                 `json:"is_full"`
}

func newJoinRequestResponse(request models.JoinRequest) JoinRequestResponse {
	return JoinRequestResponse{
		ID:        request.ID,
		GameID:    request.GameID,
		Status:    request.Status,
		CreatedAt: request.CreatedAt,
		Requester: RequesterResponse{
			ID:    request.User.ID,
			Name:  request.User.Name,
			Email: request.User.Email,
		},
	}
}

// endregion

// SubmitJoinRequest godoc
// @Summary      Request to join a game
// @Description  Appends a new pending join request. Resubmitting creates another request; earlier ones are untouched.
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      201  {object}  JoinRequestResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/requests [post]
func (h *Handler) SubmitJoinRequest(c *gin.Context) {
	userID, _ := c.Get("userID")
	gameID, _ := strconv.Atoi(c.Param("id"))

	request, err := h.ledger.Submit(uint(gameID), userID.(uint))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		storageError(c, "submit join request", err)
		return
	}

	h.db.Preload("User").First(&request, request.ID)

	c.JSON(http.StatusCreated, newJoinRequestResponse(request))
}

// GetGameRequests godoc
// @Summary      List join requests for a game
// @Description  Retrieves every join request for a game with the requester's name and email.
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200  {array}   JoinRequestResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/requests [get]
func (h *Handler) GetGameRequests(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := h.db.Select("id").First(&game, gameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	requests, err := h.ledger.ListForGame(game.ID)
	if err != nil {
		storageError(c, "list join requests", err)
		return
	}

	response := []JoinRequestResponse{}
	for _, request := range requests {
		response = append(response, newJoinRequestResponse(request))
	}

	c.JSON(http.StatusOK, response)
}

// GetRequestStatus godoc
// @Summary      Poll the caller's status for a game
// @Description  Returns the status of the caller's latest request for the game, or pending when none exists.
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200  {object}  map[string]string "{"status": "pending"}"
// @Failure      401  {object}  ErrorResponse
// @Router       /games/{id}/requests/status [get]
func (h *Handler) GetRequestStatus(c *gin.Context) {
	userID, _ := c.Get("userID")
	gameID, _ := strconv.Atoi(c.Param("id"))

	status, err := h.ledger.StatusFor(uint(gameID), userID.(uint))
	if err != nil {
		storageError(c, "poll request status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// DecideRequest godoc
// @Summary      Decide on a join request
// @Description  Overwrites a request's status. The status must be pending, accepted or rejected; decisions can be revised.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int           true "Request ID"
// @Param        input body DecisionInput true "Decision"
// @Success      200  {object}  map[string]string "{"message": "Request updated"}"
// @Failure      400  {object}  ErrorResponse "Unknown status value"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Router       /requests/{id} [put]
func (h *Handler) DecideRequest(c *gin.Context) {
	requestID, _ := strconv.Atoi(c.Param("id"))

	var input DecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ledger.UpdateStatus(uint(requestID), input.Status); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		case errors.Is(err, database.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be pending, accepted or rejected"})
		default:
			storageError(c, "update request", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request updated"})
}

// GetJoinedGames godoc
// @Summary      List games the caller asked to join
// @Description  Retrieves every game the caller has a join request against, with the latest status and live accepted count, most recent game date first.
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   JoinedGameResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/joined [get]
func (h *Handler) GetJoinedGames(c *gin.Context) {
	userID, _ := c.Get("userID")

	var games []models.Game
	err := h.db.Preload("Owner").
		Where("id IN (?)", h.db.Model(&models.JoinRequest{}).
			Select("DISTINCT game_id").
			Where("user_id = ?", userID.(uint))).
		Order("date DESC").
		Find(&games).Error
	if err != nil {
		storageError(c, "list joined games", err)
		return
	}

	response := []JoinedGameResponse{}
	for _, game := range games {
		status, err := h.ledger.StatusFor(game.ID, userID.(uint))
		if err != nil {
			storageError(c, "list joined games", err)
			return
		}

		report, err := h.capacity.Evaluate(game.ID)
		if err != nil {
			storageError(c, "list joined games", err)
			return
		}

		response = append(response, JoinedGameResponse{
			Game:          newGameResponse(game),
			Status:        status,
			AcceptedCount: report.AcceptedCount,
			IsFull:        report.IsFull,
		})
	}

	c.JSON(http.StatusOK, response)
}
