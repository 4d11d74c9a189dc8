package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	activityuc "github.com/khoahotran/cv-portfolio/internal/application/usecase/activity"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
)

type ActivityHandler struct {
	log *activityuc.Log
}

func NewActivityHandler(log *activityuc.Log) *ActivityHandler {
	return &ActivityHandler{log: log}
}

// ListActivity returns the most recent entries first. ?limit defaults to the log's
// configured page size.
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.Error(apperror.NewInvalidInput("limit must be a non-negative integer", err))
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"entries": h.log.Query(c.Request.Context(), limit)})
}

func (h *ActivityHandler) ExportActivity(c *gin.Context) {
	exportedBy := ""
	if session, ok := GetSessionFromGinContext(c); ok {
		exportedBy = session.Email
	}

	data, err := h.log.Export(c.Request.Context(), exportedBy)
	if err != nil {
		c.Error(err)
		return
	}
	filename := fmt.Sprintf("admin-data-export-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
