package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accountUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/account"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
)

type AccountHandler struct {
	useCase *accountUC.AccountUseCase
}

func NewAccountHandler(uc *accountUC.AccountUseCase) *AccountHandler {
	return &AccountHandler{useCase: uc}
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid registration request", err))
		return
	}

	current, err := h.useCase.Register(c.Request.Context(), accountUC.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AgreeTerms:      req.AgreeTerms,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, current)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid sign-in request", err))
		return
	}

	current, err := h.useCase.SignIn(c.Request.Context(), accountUC.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, current)
}

func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.useCase.SignOut(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) Me(c *gin.Context) {
	current, ok := h.useCase.CurrentUser(c.Request.Context())
	if !ok {
		c.Error(apperror.NewNotFound("current user", "session"))
		return
	}
	c.JSON(http.StatusOK, current)
}
