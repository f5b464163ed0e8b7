package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"matchday/backend/internal/auth"
	"matchday/backend/internal/config"
	"matchday/backend/internal/database"
	"matchday/backend/internal/models"
	"matchday/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := New(db)
	router := gin.New()

	apiV1 := router.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.POST("/register", h.RegisterUser)
	authRoutes.POST("/login", h.LoginUser)
	authRoutes.POST("/logout", auth.AuthMiddleware(), h.LogoutUser)

	userRoutes := apiV1.Group("/users", auth.AuthMiddleware())
	userRoutes.GET("/me", h.GetMe)
	userRoutes.PUT("/me", h.UpdateMe)
	userRoutes.GET("/me/joined", h.GetJoinedGames)

	gameRoutes := apiV1.Group("/games", auth.AuthMiddleware())
	gameRoutes.POST("", h.CreateGame)
	gameRoutes.GET("", h.GetJoinableGames)
	gameRoutes.GET("/mine", h.GetMyGames)
	gameRoutes.GET("/:id", h.GetGameByID)
	gameRoutes.GET("/:id/capacity", h.GetGameCapacity)
	gameRoutes.GET("/:id/start", h.StartGame)
	gameRoutes.POST("/:id/requests", h.SubmitJoinRequest)
	gameRoutes.GET("/:id/requests", h.GetGameRequests)
	gameRoutes.GET("/:id/requests/status", h.GetRequestStatus)

	requestRoutes := apiV1.Group("/requests", auth.AuthMiddleware())
	requestRoutes.PUT("/:id", h.DecideRequest)

	apiV1.POST("/contact", auth.OptionalAuthMiddleware(), h.SubmitContactMessage)

	adminRoutes := apiV1.Group("/admin", auth.AuthMiddleware(), auth.AdminMiddleware(db))
	adminRoutes.GET("/contact", h.GetContactMessages)

	return router, db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) (models.User, string) {
	t.Helper()

	user := models.User{
		Name:         name,
		City:         "Austin",
		ContactNo:    "+1-512-555-0100",
		Email:        email,
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func gameInput(date string) map[string]any {
	return map[string]any{
		"sport_type":  "futsal",
		"city":        "Austin",
		"team_length": 3,
		"date":        date,
		"start_time":  "18:30",
		"description": "east court",
	}
}

func createGame(t *testing.T, router *gin.Engine, token, date string) uint {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/games", token, gameInput(date))
	if w.Code != http.StatusCreated {
		t.Fatalf("create game: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp GameResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode game: %v", err)
	}
	return resp.ID
}

func TestRegisterLoginFlow(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name":       "Sam Carter",
		"city":       "Austin",
		"contact_no": "+1-512-555-0188",
		"email":      "sam@example.com",
		"password":   "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Duplicate email is rejected.
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name":       "Other",
		"city":       "Austin",
		"contact_no": "+1-512-555-0189",
		"email":      "sam@example.com",
		"password":   "password123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "sam@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string              `json:"token"`
		User  PrivateUserResponse `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", resp.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "sam@example.com",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", w.Code)
	}
}

func TestRequiresToken(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/games", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestCreateGameValidatesRequiredFields(t *testing.T) {
	router, db := newTestServer(t)
	_, token := seedUser(t, db, "Owner", "owner@example.com")

	input := gameInput("2026-09-12")
	delete(input, "sport_type")

	w := doJSON(t, router, http.MethodPost, "/api/v1/games", token, input)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing field, got %d", w.Code)
	}

	input = gameInput("12/09/2026")
	w = doJSON(t, router, http.MethodPost, "/api/v1/games", token, input)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", w.Code)
	}
}

func TestJoinableGamesExcludeCallerOwned(t *testing.T) {
	router, db := newTestServer(t)
	_, ownerToken := seedUser(t, db, "Owner", "owner@example.com")
	_, otherToken := seedUser(t, db, "Other", "other@example.com")

	ownGame := createGame(t, router, ownerToken, "2026-09-12")
	otherGame := createGame(t, router, otherToken, "2026-09-13")

	w := doJSON(t, router, http.MethodGet, "/api/v1/games", ownerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list joinable: expected 200, got %d", w.Code)
	}

	var resp PaginatedResponse[GameResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 joinable game, got %d", len(resp.Data))
	}
	if resp.Data[0].ID != otherGame {
		t.Fatalf("expected game %d, got %d", otherGame, resp.Data[0].ID)
	}
	for _, game := range resp.Data {
		if game.ID == ownGame {
			t.Fatal("caller-owned game listed as joinable")
		}
	}
}

func TestJoinableGamesIncludeFullGames(t *testing.T) {
	router, db := newTestServer(t)
	owner, _ := seedUser(t, db, "Owner", "owner@example.com")
	_, otherToken := seedUser(t, db, "Other", "other@example.com")

	// Team length 1: the owner slot alone fills the game.
	game := models.Game{
		OwnerID:     owner.ID,
		SportType:   "futsal",
		City:        "Austin",
		TeamLength:  1,
		Date:        time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime:   "18:30",
		Description: "east court",
	}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("seed game: %v", err)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/games", otherToken, nil)
	var resp PaginatedResponse[GameResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected the full game to still be listed, got %d games", len(resp.Data))
	}
}

func TestJoinDecideAndCapacityFlow(t *testing.T) {
	router, db := newTestServer(t)
	_, ownerToken := seedUser(t, db, "Owner", "owner@example.com")
	_, aliceToken := seedUser(t, db, "Alice", "alice@example.com")
	_, bobToken := seedUser(t, db, "Bob", "bob@example.com")

	gameID := createGame(t, router, ownerToken, "2026-09-12")
	gamePath := fmt.Sprintf("/api/v1/games/%d", gameID)

	// Before any request, the poll projection defaults to pending.
	w := doJSON(t, router, http.MethodGet, gamePath+"/requests/status", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("poll: expected 200, got %d", w.Code)
	}
	var statusResp struct {
		Status models.RequestStatus `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &statusResp); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if statusResp.Status != models.StatusPending {
		t.Fatalf("expected default pending, got %q", statusResp.Status)
	}

	// Two players ask to join.
	for _, token := range []string{aliceToken, bobToken} {
		w = doJSON(t, router, http.MethodPost, gamePath+"/requests", token, nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("submit: expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	// The owner sees both requests with requester identity.
	w = doJSON(t, router, http.MethodGet, gamePath+"/requests", ownerToken, nil)
	var requests []JoinRequestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &requests); err != nil {
		t.Fatalf("decode requests: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}
	if requests[0].Requester.Email != "alice@example.com" {
		t.Fatalf("expected requester email, got %q", requests[0].Requester.Email)
	}

	// Accept both; team length 3 means owner + 2 accepted = full.
	for _, request := range requests {
		w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/requests/%d", request.ID), ownerToken,
			map[string]any{"status": "accepted"})
		if w.Code != http.StatusOK {
			t.Fatalf("decide: expected 200, got %d: %s", w.Code, w.Body.String())
		}
	}

	w = doJSON(t, router, http.MethodGet, gamePath+"/capacity", ownerToken, nil)
	var report struct {
		AcceptedCount int  `json:"accepted_count"`
		TeamLength    int  `json:"team_length"`
		IsFull        bool `json:"is_full"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode capacity: %v", err)
	}
	if report.AcceptedCount != 3 || !report.IsFull {
		t.Fatalf("expected full with count 3, got %+v", report)
	}

	// Requesters see their accepted status when polling.
	w = doJSON(t, router, http.MethodGet, gamePath+"/requests/status", aliceToken, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &statusResp); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if statusResp.Status != models.StatusAccepted {
		t.Fatalf("expected accepted, got %q", statusResp.Status)
	}

	// The start view lists the owner and every accepted player, full or not.
	w = doJSON(t, router, http.MethodGet, gamePath+"/start", ownerToken, nil)
	var start StartGameResponse
	if err := json.Unmarshal(w.Body.Bytes(), &start); err != nil {
		t.Fatalf("decode start: %v", err)
	}
	if start.OwnerName != "Owner" {
		t.Fatalf("expected owner name, got %q", start.OwnerName)
	}
	if len(start.Accepted) != 2 {
		t.Fatalf("expected 2 accepted players, got %d", len(start.Accepted))
	}
}

func TestDecideUnknownRequest(t *testing.T) {
	router, db := newTestServer(t)
	_, token := seedUser(t, db, "Owner", "owner@example.com")

	w := doJSON(t, router, http.MethodPut, "/api/v1/requests/999", token, map[string]any{"status": "accepted"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDecideRejectsUnknownStatus(t *testing.T) {
	router, db := newTestServer(t)
	_, ownerToken := seedUser(t, db, "Owner", "owner@example.com")
	_, aliceToken := seedUser(t, db, "Alice", "alice@example.com")

	gameID := createGame(t, router, ownerToken, "2026-09-12")
	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/requests", gameID), aliceToken, nil)
	var request JoinRequestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &request); err != nil {
		t.Fatalf("decode request: %v", err)
	}

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/requests/%d", request.ID), ownerToken,
		map[string]any{"status": "maybe"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestSubmitForUnknownGame(t *testing.T) {
	router, db := newTestServer(t)
	_, token := seedUser(t, db, "Alice", "alice@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/games/999/requests", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestJoinedGamesAnnotated(t *testing.T) {
	router, db := newTestServer(t)
	_, ownerToken := seedUser(t, db, "Owner", "owner@example.com")
	_, aliceToken := seedUser(t, db, "Alice", "alice@example.com")

	earlier := createGame(t, router, ownerToken, "2026-09-12")
	later := createGame(t, router, ownerToken, "2026-10-01")

	for _, id := range []uint{earlier, later} {
		w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/requests", id), aliceToken, nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("submit: expected 201, got %d", w.Code)
		}
	}

	// Accept the request on the earlier game.
	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/games/%d/requests", earlier), ownerToken, nil)
	var requests []JoinRequestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &requests); err != nil {
		t.Fatalf("decode requests: %v", err)
	}
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/requests/%d", requests[0].ID), ownerToken,
		map[string]any{"status": "accepted"})
	if w.Code != http.StatusOK {
		t.Fatalf("decide: expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me/joined", aliceToken, nil)
	var joined []JoinedGameResponse
	if err := json.Unmarshal(w.Body.Bytes(), &joined); err != nil {
		t.Fatalf("decode joined: %v", err)
	}
	if len(joined) != 2 {
		t.Fatalf("expected 2 joined games, got %d", len(joined))
	}

	// Most recent game date first.
	if joined[0].Game.ID != later || joined[1].Game.ID != earlier {
		t.Fatalf("expected order [%d %d], got [%d %d]", later, earlier, joined[0].Game.ID, joined[1].Game.ID)
	}
	if joined[0].Status != models.StatusPending {
		t.Fatalf("expected pending on later game, got %q", joined[0].Status)
	}
	if joined[1].Status != models.StatusAccepted {
		t.Fatalf("expected accepted on earlier game, got %q", joined[1].Status)
	}
	if joined[1].AcceptedCount != 2 {
		t.Fatalf("expected live accepted count 2, got %d", joined[1].AcceptedCount)
	}
}

func TestContactFormAndAdminListing(t *testing.T) {
	router, db := newTestServer(t)
	user, userToken := seedUser(t, db, "Sam", "sam@example.com")
	admin, adminToken := seedUser(t, db, "Admin", "admin@example.com")
	if err := db.Model(&admin).Update("role", "admin").Error; err != nil {
		t.Fatalf("promote admin: %v", err)
	}

	// Anonymous submission works.
	w := doJSON(t, router, http.MethodPost, "/api/v1/contact", "", map[string]any{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"message": "The east court listing shows the wrong city.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("contact: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Logged-in submission is attributed.
	w = doJSON(t, router, http.MethodPost, "/api/v1/contact", userToken, map[string]any{
		"name":    "Sam",
		"email":   "sam@example.com",
		"message": "Please add padel as a sport type.",
	})
	var created ContactMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode contact: %v", err)
	}
	if created.UserID == nil || *created.UserID != user.ID {
		t.Fatalf("expected attribution to user %d, got %v", user.ID, created.UserID)
	}

	// Plain users cannot read the inbox.
	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/contact", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/contact", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin listing: expected 200, got %d", w.Code)
	}
	var listing PaginatedResponse[ContactMessageResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if listing.Meta.TotalItems != 2 {
		t.Fatalf("expected 2 messages, got %d", listing.Meta.TotalItems)
	}
}
