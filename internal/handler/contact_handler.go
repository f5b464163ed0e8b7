package handler

import (
	"net/http"
	"strconv"
	"time"

	"matchday/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ContactInput defines the structure for a contact-us submission.
type ContactInput struct {
	Name    string `json:"name" binding:"required" example:"Sam Carter"`
	Email   string `json:"email" binding:"required,email" example:"sam@example.com"`
	Message string `json:"message" binding:"required" example:"The east court listing shows the wrong city."`
}

// ContactMessageResponse is a stored contact submission.
type ContactMessageResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	UserID    *uint     `json:"user_id,omitempty"`
}

func newContactMessageResponse(msg models.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        msg.ID,
		CreatedAt: msg.CreatedAt,
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
		UserID:    msg.UserID,
	}
}

// SubmitContactMessage godoc
// @Summary      Submit a contact-us message
// @Description  Stores a message for the operators. If the sender is logged in the message is attributed to them.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        input body ContactInput true "Message"
// @Success      201  {object}  ContactMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /contact [post]
func (h *Handler) SubmitContactMessage(c *gin.Context) {
	var input ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Message: input.Message,
	}
	if userID, exists := c.Get("userID"); exists {
		id := userID.(uint)
		msg.UserID = &id
	}

	if err := h.db.Create(&msg).Error; err != nil {
		storageError(c, "store contact message", err)
		return
	}

	c.JSON(http.StatusCreated, newContactMessageResponse(msg))
}

// GetContactMessages godoc
// @Summary      List contact-us messages
// @Description  Retrieves a paginated list of contact submissions, newest first.
// @Tags         admin-contact
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[ContactMessageResponse]
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/contact [get]
func (h *Handler) GetContactMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = pageParams(page, limit)

	query := h.db.Order("id DESC")
	paged, err := Paginate[models.ContactMessage](query, page, limit)
	if err != nil {
		storageError(c, "list contact messages", err)
		return
	}

	response := []ContactMessageResponse{}
	for _, msg := range paged.Data {
		response = append(response, newContactMessageResponse(msg))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, paged.Meta.TotalItems, page, limit))
}
