package handler

import (
	"net/http"

	"matchday/backend/internal/models"
	"matchday/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Name      string `json:"name" binding:"required" example:"Sam Carter"`
	City      string `json:"city" binding:"required" example:"Austin"`
	ContactNo string `json:"contact_no" binding:"required" example:"+1-512-555-0188"`
	Email     string `json:"email" binding:"required,email" example:"sam@example.com"`
	Password  string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"sam@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateProfileInput defines the editable profile fields.
type UpdateProfileInput struct {
	Name      string `json:"name" binding:"required"`
	City      string `json:"city" binding:"required"`
	ContactNo string `json:"contact_no" binding:"required"`
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"Sam Carter"`
	City string `json:"city" example:"Austin"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID        uint   `json:"id" example:"1"`
	Name      string `json:"name" example:"Sam Carter"`
	City      string `json:"city" example:"Austin"`
	ContactNo string `json:"contact_no" example:"+1-512-555-0188"`
	Email     string `json:"email" example:"sam@example.com"`
}

func newPublicUserResponse(user models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:   user.ID,
		Name: user.Name,
		City: user.City,
	}
}

func newPrivateUserResponse(user models.User) PrivateUserResponse {
	return PrivateUserResponse{
		ID:        user.ID,
		Name:      user.Name,
		City:      user.City,
		ContactNo: user.ContactNo,
		Email:     user.Email,
	}
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]interface{} "{"token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingUser models.User
	if err := h.db.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:         input.Name,
		City:         input.City,
		ContactNo:    input.ContactNo,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := h.db.Create(&user).Error; err != nil {
		storageError(c, "create user", err)
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": newPrivateUserResponse(user)})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]interface{} "{"token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found, please register first"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": newPrivateUserResponse(user)})
}

// LogoutUser godoc
// @Summary      Log out the current user
// @Description  Acknowledges a logout. Tokens are stateless, so the client simply discards its token.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string "{"message": "Logged out successfully"}"
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/logout [post]
func (h *Handler) LogoutUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// endregion

// region --- Profile Handlers ---

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := h.db.First(&user, userID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, newPrivateUserResponse(user))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Description  Updates the name, city and contact number of the authenticated user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateProfileInput true "Profile Info"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := h.db.First(&user, userID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user.Name = input.Name
	user.City = input.City
	user.ContactNo = input.ContactNo

	if err := h.db.Save(&user).Error; err != nil {
		storageError(c, "update profile", err)
		return
	}

	c.JSON(http.StatusOK, newPrivateUserResponse(user))
}

// endregion
