package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	usersUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/users"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
)

type UserHandler struct {
	manager *usersUC.UserManager
}

func NewUserHandler(m *usersUC.UserManager) *UserHandler {
	return &UserHandler{manager: m}
}

func userIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.NewInvalidInput("invalid user ID", err)
	}
	return id, nil
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(bindError(err, "invalid query"))
		return
	}

	res, err := h.manager.List(c.Request.Context(), usersUC.ListQuery{
		Search:  q.Search,
		SortBy:  usersUC.SortField(q.SortBy),
		Order:   q.Order,
		Page:    q.Page,
		PerPage: q.PerPage,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, UserListDTO{
		Users:      ToUserDTOs(res.Users),
		Total:      res.Total,
		Page:       res.Page,
		PerPage:    res.PerPage,
		TotalPages: res.TotalPages,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	u, err := h.manager.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToUserDTO(u))
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "invalid user"))
		return
	}

	u, err := h.manager.Create(c.Request.Context(), usersUC.CreateUserInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Role:            req.Role,
		Status:          req.Status,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToUserDTO(u))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "invalid user"))
		return
	}

	u, err := h.manager.Update(c.Request.Context(), usersUC.UpdateUserInput{
		ID:     id,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToUserDTO(u))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.manager.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ToggleStatus(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	u, err := h.manager.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToUserDTO(u))
}

func (h *UserHandler) Stats(c *gin.Context) {
	st, err := h.manager.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ExportCSV uses ?lang= when given, else the Accept-Language header.
func (h *UserHandler) ExportCSV(c *gin.Context) {
	locale := i18n.Detect(c.GetHeader("Accept-Language"))
	if lang := c.Query("lang"); lang != "" {
		l, err := i18n.Parse(lang)
		if err != nil {
			c.Error(apperror.NewInvalidInput("unsupported locale", err))
			return
		}
		locale = l
	}

	data, err := h.manager.ExportCSV(c.Request.Context(), locale)
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, usersUC.ExportFilename(time.Now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
