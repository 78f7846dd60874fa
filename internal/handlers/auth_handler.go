package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"habitboard/internal/middleware"
	"habitboard/internal/models"
	"habitboard/internal/services"
	"habitboard/internal/utils"
)

type AuthHandler struct {
	userService services.UserService
	authService services.AuthService
}

func NewAuthHandler(userService services.UserService, authService services.AuthService) *AuthHandler {
	return &AuthHandler{userService: userService, authService: authService}
}

// @Summary      Register a new account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Account details"
// @Success      201    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[auth][register] attempt username=%q email=%q", req.Username, req.Email)

	user, err := h.userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, "auth.register", err)
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}
	log.Printf("[auth][register][ok] userID=%d", user.ID)
	c.JSON(http.StatusCreated, gin.H{"user": user, "tokens": tokens})
}

// @Summary      Log in
// @Description  Authenticates by email and password and returns tokens
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	user, err := h.userService.GetByEmail(c.Request.Context(), email)
	if err != nil || user == nil {
		log.Printf("[auth][login] unknown email=%q err=%v", email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := h.authService.CheckPassword(strings.TrimSpace(req.Password), user.PasswordHash); err != nil {
		log.Printf("[auth][login] password mismatch userID=%d", user.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}
	log.Printf("[auth][login][ok] userID=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user, // PasswordHash is json:"-", never serialized
		"tokens":  tokens,
	})
}

// POST /refresh { "refresh_token": "..." }
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	old := strings.TrimSpace(req.RefreshToken)
	user, err := h.userService.GetByRefreshToken(c.Request.Context(), old)
	if err != nil || user == nil || user.RefreshToken == nil || user.RefreshExpiresAt == nil || user.RefreshRevoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if time.Now().After(*user.RefreshExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired"})
		return
	}

	newRT, err := utils.NewRefreshToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate refresh token"})
		return
	}
	newExp := time.Now().Add(h.authService.RefreshTTL())
	rotatedUser, err := h.userService.RotateRefresh(c.Request.Context(), old, newRT, newExp)
	if err != nil || rotatedUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	access, err := h.authService.GenerateToken(rotatedUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}
	h.setTokenCookie(c, access)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": newRT,
	})
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID, ok := getUserID(c); ok {
		if err := h.userService.ClearRefresh(c.Request.Context(), userID); err != nil {
			log.Printf("[auth][logout][err] clear refresh userID=%d: %v", userID, err)
		}
	}
	c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no identity in context"})
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "auth.me", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// PUT /me/telegram { "chat_id": 123 } — zero or absent unlinks
func (h *AuthHandler) LinkTelegram(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no identity in context"})
		return
	}
	var req struct {
		ChatID int64 `json:"chat_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var chatID *int64
	if req.ChatID != 0 {
		chatID = &req.ChatID
	}
	if err := h.userService.LinkTelegramChat(c.Request.Context(), userID, chatID); err != nil {
		respondError(c, "auth.telegram", err)
		return
	}
	log.Printf("[auth][telegram][ok] userID=%d linked=%v", userID, chatID != nil)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) (gin.H, error) {
	access, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("[auth][tokens][err] sign access userID=%d: %v", user.ID, err)
		return nil, err
	}

	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		log.Printf("[auth][tokens][err] new refresh userID=%d: %v", user.ID, err)
		return nil, err
	}
	rtExp := time.Now().Add(h.authService.RefreshTTL())
	if err := h.userService.UpdateRefresh(c.Request.Context(), user.ID, rt, rtExp); err != nil {
		log.Printf("[auth][tokens][err] store refresh userID=%d: %v", user.ID, err)
		return nil, err
	}

	h.setTokenCookie(c, access)
	return gin.H{
		"access_token":  access,
		"refresh_token": rt,
	}, nil
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, access string) {
	maxAge := int(h.authService.AccessTTL() / time.Second)
	c.SetCookie(middleware.CookieName, access, maxAge, "/", "", false, true)
}
