package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	backupUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/backup"
)

type SystemHandler struct {
	backupUseCase *backupUC.BackupUseCase
}

func NewSystemHandler(uc *backupUC.BackupUseCase) *SystemHandler {
	return &SystemHandler{backupUseCase: uc}
}

func (h *SystemHandler) Backup(c *gin.Context) {
	res, err := h.backupUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
