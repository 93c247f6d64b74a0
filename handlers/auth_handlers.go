package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"sophia/api/models"
	"sophia/api/store"
	"sophia/api/utils"
)

type AuthHandlers struct {
	UserStore *store.UserStore
}

func NewAuthHandlers(userStore *store.UserStore) *AuthHandlers {
	return &AuthHandlers{UserStore: userStore}
}

func (h *AuthHandlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	existing, err := h.UserStore.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("Database error during registration email check")
		respondMessage(c, http.StatusInternalServerError, "Failed to check user existence")
		return
	}
	if existing != nil {
		respondMessage(c, http.StatusConflict, "User with this email already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		respondMessage(c, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user, err := h.UserStore.CreateUser(c.Request.Context(), req.Email, hashedPassword, req.Name)
	if err != nil {
		if err == store.ErrDuplicate {
			respondMessage(c, http.StatusConflict, "User with this email already exists")
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		respondMessage(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	log.Info().Int("user_id", user.ID).Msg("User registered")
	respondCreated(c, user)
}

// Login authenticates and issues the JWT both as a cookie and in the body.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.UserStore.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("Database error during login")
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(req.Password)); err != nil {
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tokenString, err := utils.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Int("user_id", user.ID).Msg("Failed to generate JWT")
		respondMessage(c, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	c.SetCookie("jwt_token", tokenString, int(24*time.Hour/time.Second), "/", "", false, true)
	respondOK(c, gin.H{"token": tokenString, "user": user})
}

// RefreshToken re-issues a token from a still-valid one.
func (h *AuthHandlers) RefreshToken(c *gin.Context) {
	claims := c.MustGet("claims").(*utils.Claims)
	tokenString, err := utils.RefreshJWT(claims)
	if err != nil {
		log.Error().Err(err).Int("user_id", claims.UserID).Msg("Failed to refresh JWT")
		respondMessage(c, http.StatusInternalServerError, "Failed to refresh token")
		return
	}
	c.SetCookie("jwt_token", tokenString, int(24*time.Hour/time.Second), "/", "", false, true)
	respondOK(c, gin.H{"token": tokenString})
}

func (h *AuthHandlers) Profile(c *gin.Context) {
	user, err := h.UserStore.GetUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("Failed to load profile")
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		respondMessage(c, http.StatusNotFound, "User not found")
		return
	}
	respondOK(c, user)
}

func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	userID := currentUserID(c)
	user, err := h.UserStore.GetUserByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(req.CurrentPassword)); err != nil {
		respondMessage(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, "Failed to process password")
		return
	}
	if err := h.UserStore.UpdatePassword(c.Request.Context(), userID, hashed); err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("Failed to update password")
		respondMessage(c, http.StatusInternalServerError, "Failed to update password")
		return
	}
	respondMessage(c, http.StatusOK, "Password updated")
}

// DeleteAccount removes the user; owned businesses cascade at the schema level.
func (h *AuthHandlers) DeleteAccount(c *gin.Context) {
	userID := currentUserID(c)
	if err := h.UserStore.DeleteUser(c.Request.Context(), userID); err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("Failed to delete account")
		respondMessage(c, http.StatusInternalServerError, "Failed to delete account")
		return
	}
	c.SetCookie("jwt_token", "", -1, "/", "", false, true)
	respondMessage(c, http.StatusOK, "Account deleted")
}
