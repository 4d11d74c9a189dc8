package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/auth"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

type AuthHandler struct {
	gate   *authUC.Gate
	logger logger.Logger
}

func NewAuthHandler(gate *authUC.Gate, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		gate:   gate,
		logger: log,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "invalid login request"))
		return
	}

	session, err := h.gate.Login(c.Request.Context(), authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": session.Token,
		"expires_at":   session.ExpiresAt,
		"email":        session.Email,
		"role":         session.Role,
		"permissions":  session.Permissions,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.gate.Logout(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Session(c *gin.Context) {
	session, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("session not found in context", nil))
		return
	}
	c.JSON(http.StatusOK, ToSessionDTO(session))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	session, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("session not found in context", nil))
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "invalid password change request"))
		return
	}

	err := h.gate.ChangePassword(c.Request.Context(), authUC.ChangePasswordInput{
		Email:           session.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
