package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
	"github.com/khoahotran/cv-portfolio/pkg/validate"
)

// ValidateHandler exposes the field rules so forms can check input as it is typed.
type ValidateHandler struct{}

func NewValidateHandler() *ValidateHandler {
	return &ValidateHandler{}
}

func (h *ValidateHandler) Email(c *gin.Context) {
	var req emailCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": validate.Email(req.Email)})
}

func (h *ValidateHandler) Password(c *gin.Context) {
	var req passwordCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body", err))
		return
	}
	locale := i18n.Detect(c.GetHeader("Accept-Language"))
	strength := validate.PasswordStrength(req.Password)
	c.JSON(http.StatusOK, gin.H{
		"valid":     len([]rune(req.Password)) >= validate.MinPasswordLength,
		"matches":   validate.PasswordsMatch(req.Password, req.Confirm),
		"score":     strength.Score,
		"label":     strength.Label,
		"labelText": i18n.T(locale, string(strength.Label)),
		"minLength": validate.MinPasswordLength,
	})
}
