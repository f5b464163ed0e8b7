package main

import (
	"fmt"
	"log"
	"net/http"

	"matchday/backend/internal/auth"
	"matchday/backend/internal/config"
	"matchday/backend/internal/database"
	"matchday/backend/internal/handler"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "matchday/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Matchday API
// @version         1.0
// @description     This is the API for the Matchday pickup-sports service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	h := handler.New(db)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", h.RegisterUser)
			authRoutes.POST("/login", h.LoginUser)
			authRoutes.POST("/logout", auth.AuthMiddleware(), h.LogoutUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", h.GetMe)
			userRoutes.PUT("/me", h.UpdateMe)
			userRoutes.GET("/me/joined", h.GetJoinedGames)
		}

		// Game routes (protected)
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.AuthMiddleware())
		{
			gameRoutes.POST("", h.CreateGame)
			gameRoutes.GET("", h.GetJoinableGames)
			gameRoutes.GET("/mine", h.GetMyGames) // Must be before /:id
			gameRoutes.GET("/:id", h.GetGameByID)
			gameRoutes.GET("/:id/capacity", h.GetGameCapacity)
			gameRoutes.GET("/:id/start", h.StartGame)

			// Join-request routes
			gameRoutes.POST("/:id/requests", h.SubmitJoinRequest)
			gameRoutes.GET("/:id/requests", h.GetGameRequests)
			gameRoutes.GET("/:id/requests/status", h.GetRequestStatus)
		}

		// Decision routes (protected)
		requestRoutes := apiV1.Group("/requests")
		requestRoutes.Use(auth.AuthMiddleware())
		{
			requestRoutes.PUT("/:id", h.DecideRequest)
		}

		// Contact form (token optional, attributes the message when present)
		apiV1.POST("/contact", auth.OptionalAuthMiddleware(), h.SubmitContactMessage)

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware(db))
		{
			adminRoutes.GET("/contact", h.GetContactMessages)
		}
	}

	addr := ":" + config.AppConfig.Port
	fmt.Println("Server is running on " + addr)
	fmt.Println("Swagger UI is available at http://localhost" + addr + "/swagger/index.html")
	log.Fatal(router.Run(addr))
}
