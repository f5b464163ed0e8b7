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

// GameInput defines the attributes for creating a game. Every field is
// required; games cannot be edited afterwards.
type GameInput struct {
	SportType   string `json:"sport_type" binding:"required" example:"futsal"`
	City        string `json:"city" binding:"required" example:"Austin"`
	TeamLength  int    `json:"team_length" binding:"required,min=1" example:"5"`
	Date        string `json:"date" binding:"required" example:"2026-09-12"`
	StartTime   string `json:"start_time" binding:"required" example:"18:30"`
	Description string `json:"description" binding:"required" example:"Friendly 5-a-side at the east court"`
}

type GameResponse struct {
	ID          uint               `json:"id"`
	SportType   string             `json:"sport_type"`
	City        string             `json:"city"`
	TeamLength  int                `json:"team_length"`
	Date        string             `json:"date"`
	StartTime   string             `json:"start_time"`
	Description string             `json:"description"`
	Owner       PublicUserResponse `json:"owner"`
}

// StartGameResponse is the pre-game view: the game itself, who is hosting,
// and everyone whose request was accepted. It is available regardless of
// whether the game filled up.
type StartGameResponse struct {
	Game      GameResponse         `json:"game"`
	OwnerName string               `json:"owner_name"`
	Accepted  []PublicUserResponse `json:"accepted"`
}

func newGameResponse(game models.Game) GameResponse {
	return GameResponse{
		ID:          game.ID,
		SportType:   game.SportType,
		City:        game.City,
		TeamLength:  game.TeamLength,
		Date:        game.Date.Format("2006-01-02"),
		StartTime:   game.StartTime,
		Description: game.Description,
		Owner:       newPublicUserResponse(game.Owner),
	}
}

// endregion

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a game owned by the caller. All fields are required.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /games [post]
func (h *Handler) CreateGame(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	game := models.Game{
		OwnerID:     userID.(uint),
		SportType:   input.SportType,
		City:        input.City,
		TeamLength:  input.TeamLength,
		Date:        date,
		StartTime:   input.StartTime,
		Description: input.Description,
	}
	if err := h.db.Create(&game).Error; err != nil {
		storageError(c, "create game", err)
		return
	}

	h.db.Preload("Owner").First(&game, game.ID)

	c.JSON(http.StatusCreated, newGameResponse(game))
}

// GetMyGames godoc
// @Summary      List games owned by the caller
// @Description  Retrieves every game the authenticated user created, newest date first.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  GameResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /games/mine [get]
func (h *Handler) GetMyGames(c *gin.Context) {
	userID, _ := c.Get("userID")

	var games []models.Game
	err := h.db.Preload("Owner").
		Where("owner_id = ?", userID.(uint)).
		Order("date DESC").
		Find(&games).Error
	if err != nil {
		storageError(c, "list games", err)
		return
	}

	response := []GameResponse{}
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}

	c.JSON(http.StatusOK, response)
}

// GetJoinableGames godoc
// @Summary      List joinable games
// @Description  Retrieves a paginated list of games not owned by the caller. Full or past games are still listed.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[GameResponse]
// @Failure      401  {object}  ErrorResponse
// @Router       /games [get]
func (h *Handler) GetJoinableGames(c *gin.Context) {
	userID, _ := c.Get("userID")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = pageParams(page, limit)

	query := h.db.Preload("Owner").
		Where("owner_id <> ?", userID.(uint)).
		Order("date DESC")

	paged, err := Paginate[models.Game](query, page, limit)
	if err != nil {
		storageError(c, "list games", err)
		return
	}

	response := []GameResponse{}
	for _, game := range paged.Data {
		response = append(response, newGameResponse(game))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, paged.Meta.TotalItems, page, limit))
}

// GetGameByID godoc
// @Summary      Get a game by ID
// @Description  Retrieves full details for a single game.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200  {object}  GameResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *Handler) GetGameByID(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := h.db.Preload("Owner").First(&game, gameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, newGameResponse(game))
}

// GetGameCapacity godoc
// @Summary      Check a game's capacity
// @Description  Derives the accepted count (owner included) and whether the game is full.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200  {object}  capacity.Report
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/capacity [get]
func (h *Handler) GetGameCapacity(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	report, err := h.capacity.Evaluate(uint(gameID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		storageError(c, "check capacity", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// StartGame godoc
// @Summary      Start game view
// @Description  Returns the game, the owner's name and all accepted players. Not gated on the game being full.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200  {object}  StartGameResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/start [get]
func (h *Handler) StartGame(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := h.db.Preload("Owner").First(&game, gameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var requests []models.JoinRequest
	err := h.db.Preload("User").
		Where("game_id = ? AND status = ?", game.ID, models.StatusAccepted).
		Order("id ASC").
		Find(&requests).Error
	if err != nil {
		storageError(c, "list accepted players", err)
		return
	}

	accepted := []PublicUserResponse{}
	for _, request := range requests {
		accepted = append(accepted, newPublicUserResponse(request.User))
	}

	c.JSON(http.StatusOK, StartGameResponse{
		Game:      newGameResponse(game),
		OwnerName: game.Owner.Name,
		Accepted:  accepted,
	})
}
