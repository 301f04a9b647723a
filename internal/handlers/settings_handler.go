package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/auth"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/dtos"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/services"
)

type SettingsHandler struct {
	Settings *services.SettingsService
	Logger   logrus.FieldLogger
}

func NewSettingsHandler(settings *services.SettingsService, logger logrus.FieldLogger) *SettingsHandler {
	return &SettingsHandler{Settings: settings, Logger: logger}
}

func (h *SettingsHandler) Profile(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	user, err := h.Settings.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req dtos.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	user, err := h.Settings.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *SettingsHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req dtos.PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	if err := h.Settings.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *SettingsHandler) UpdateNotifications(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req dtos.NotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	user, err := h.Settings.UpdateNotifications(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, user.Notifications)
}

func (h *SettingsHandler) EnableTwoFactor(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	key, err := h.Settings.EnableTwoFactor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, key)
}

func (h *SettingsHandler) VerifyTwoFactor(c *gin.Context) {
	h.twoFactorCode(c, h.Settings.VerifyTwoFactor)
}

func (h *SettingsHandler) DisableTwoFactor(c *gin.Context) {
	h.twoFactorCode(c, h.Settings.DisableTwoFactor)
}

func (h *SettingsHandler) twoFactorCode(c *gin.Context, apply func(ctx context.Context, userID uint, code string) (*models.User, error)) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req dtos.TwoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	user, err := apply(c.Request.Context(), userID, req.Code)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"twoFactorEnabled": user.TwoFactorEnabled})
}

func (h *SettingsHandler) userID(c *gin.Context) (uint, bool) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		respondError(c, h.Logger, apperrors.Unauthorized("not authenticated"))
	}
	return userID, ok
}
