package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tijani-web/flowpitch-backend/internal/auth"
	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

const resetTokenTTL = time.Hour

type AuthHandler struct {
	users     repository.UserRepositoryInterface
	jwtSecret string
	log       *zap.Logger
}

func NewAuthHandler(users repository.UserRepositoryInterface, jwtSecret string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, log: log}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	req.Email = strings.ToLower(req.Email)
	req.Username = strings.ToLower(req.Username)

	if existing, err := h.users.FindByEmail(c.Request.Context(), req.Email); err != nil {
		response.HandleError(c, h.log, err)
		return
	} else if existing != nil {
		response.Err(c, http.StatusConflict, "Email already registered")
		return
	}
	if existing, err := h.users.FindByUsername(c.Request.Context(), req.Username); err != nil {
		response.HandleError(c, h.log, err)
		return
	} else if existing != nil {
		response.Err(c, http.StatusConflict, "Username already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	user := &model.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         "user",
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	token, err := auth.GenerateToken(user.ID.String(), h.jwtSecret)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	response.OK(c, http.StatusCreated, "Account created", gin.H{
		"token": token,
		"user":  user,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if user == nil || user.PasswordHash == "" {
		response.Err(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		response.Err(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID.String(), h.jwtSecret)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "Logged in", gin.H{
		"token": token,
		"user":  user,
	})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if user == nil {
		response.Err(c, http.StatusNotFound, "User not found")
		return
	}
	response.OK(c, http.StatusOK, "", user)
}

// Logout is stateless on the server side; the client drops its token. The
// endpoint exists so clients have a uniform call to hang cleanup on.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.OK(c, http.StatusOK, "Logged out", nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if user == nil {
		response.Err(c, http.StatusNotFound, "User not found")
		return
	}
	if user.PasswordHash == "" {
		response.Err(c, http.StatusBadRequest, "Account has no password set")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		response.Err(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	user.PasswordHash = string(hash)
	if err := h.users.Update(c.Request.Context(), user); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Password updated", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a reset token. The response is identical whether the
// email exists or not.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if user != nil {
		token, err := repository.GenerateToken()
		if err != nil {
			response.HandleError(c, h.log, err)
			return
		}
		expires := time.Now().Add(resetTokenTTL)
		user.ResetToken = &token
		user.ResetTokenExpires = &expires
		if err := h.users.Update(c.Request.Context(), user); err != nil {
			response.HandleError(c, h.log, err)
			return
		}
		h.log.Info("password reset token issued", zap.String("email", user.Email))
	}

	response.OK(c, http.StatusOK, "If that email exists, a reset link has been sent", nil)
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.FindByResetToken(c.Request.Context(), req.Token)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if user == nil || user.ResetTokenExpires == nil || time.Now().After(*user.ResetTokenExpires) {
		response.Err(c, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	user.PasswordHash = string(hash)
	user.ResetToken = nil
	user.ResetTokenExpires = nil
	if err := h.users.Update(c.Request.Context(), user); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Password has been reset", nil)
}
