package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/auth"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/dtos"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/services"
)

const resetRequestedMessage = "if an account exists for that email, a reset link has been sent"

type AuthHandler struct {
	Auth   *services.AuthService
	Logger logrus.FieldLogger
}

func NewAuthHandler(authService *services.AuthService, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Auth: authService, Logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	user, err := h.Auth.Register(c.Request.Context(), auth.RoleFromContext(c), &req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	result, err := h.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		respondError(c, h.Logger, apperrors.Unauthorized("not authenticated"))
		return
	}
	user, err := h.Auth.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dtos.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	if err := h.Auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": resetRequestedMessage})
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dtos.ResetPasswordConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	if err := h.Auth.ConfirmPasswordReset(c.Request.Context(), &req); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password has been reset"})
}
