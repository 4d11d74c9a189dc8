package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/cv-portfolio/internal/application/usecase/preference"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
)

type LanguageHandler struct {
	useCase *preference.LanguageUseCase
}

func NewLanguageHandler(uc *preference.LanguageUseCase) *LanguageHandler {
	return &LanguageHandler{useCase: uc}
}

func languageBody(l i18n.Locale) gin.H {
	return gin.H{"language": l, "dir": l.Dir()}
}

func (h *LanguageHandler) GetLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, languageBody(h.useCase.Get(c.Request.Context(), c.GetHeader("Accept-Language"))))
}

func (h *LanguageHandler) SetLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "invalid language request"))
		return
	}
	l, err := h.useCase.Set(c.Request.Context(), req.Language)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, languageBody(l))
}
