package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portfolioUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/portfolio"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

type PortfolioHandler struct {
	useCase *portfolioUC.PortfolioUseCase
	logger  logger.Logger
}

func NewPortfolioHandler(uc *portfolioUC.PortfolioUseCase, log logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		useCase: uc,
		logger:  log,
	}
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	view, err := h.useCase.ExecuteGetPortfolio(c.Request.Context(), locale)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PortfolioHandler) Feed(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	feed, err := h.useCase.ExecuteFeed(c.Request.Context(), locale)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}
