package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/profile"
	"github.com/khoahotran/cv-portfolio/internal/domain/profile"
	"github.com/khoahotran/cv-portfolio/internal/formstate"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const maxImportSize = 1 << 20

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	autoSaver      *profileUC.AutoSaver
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, autoSaver *profileUC.AutoSaver, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		autoSaver:      autoSaver,
		logger:         log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), profileUC.GetProfileInput{Locale: locale})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": output.Profile, "saved": output.Saved})
}

func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	req := profile.New()
	if err := c.ShouldBindJSON(req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}
	h.autoSaver.Stop(locale)

	output, err := h.profileUseCase.ExecuteSaveProfile(c.Request.Context(), profileUC.SaveProfileInput{
		Locale:  locale,
		Profile: req,
		Trigger: profileUC.TriggerManual,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

func (h *ProfileHandler) ResetProfile(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	h.autoSaver.Stop(locale)

	surface, err := h.profileUseCase.ExecuteResetProfile(c.Request.Context(), locale)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, surface.Snapshot())
}

func (h *ProfileHandler) GetForm(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	surface, err := h.profileUseCase.ExecuteLoadSurface(c.Request.Context(), locale)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, surface.Snapshot())
}

func (h *ProfileHandler) SaveForm(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var snap formstate.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for form", err))
		return
	}
	h.autoSaver.Stop(locale)

	output, err := h.profileUseCase.ExecuteSaveSurface(c.Request.Context(), locale, formstate.FromSnapshot(snap), profileUC.TriggerManual)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

// Autosave queues the edit and answers immediately; the write happens once edits
// pause.
func (h *ProfileHandler) Autosave(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req autosaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for autosave", err))
		return
	}
	switch {
	case req.Profile != nil:
		h.autoSaver.Schedule(locale, req.Profile)
	case req.Form != nil:
		h.autoSaver.ScheduleSurface(locale, formstate.FromSnapshot(*req.Form))
	default:
		c.Error(apperror.NewInvalidInput("either profile or form is required", nil))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"pending": true})
}

func (h *ProfileHandler) ExportProfile(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	data, err := h.profileUseCase.ExecuteExportProfile(c.Request.Context(), locale)
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="portfolio-%s.json"`, locale))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ImportProfile accepts the document either as a multipart "file" or as the raw body.
func (h *ProfileHandler) ImportProfile(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var src io.Reader = c.Request.Body
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.Error(apperror.NewInternal("failed to open file", err))
			return
		}
		defer file.Close()
		src = file
	}
	data, err := io.ReadAll(io.LimitReader(src, maxImportSize))
	if err != nil {
		c.Error(apperror.NewInvalidInput("failed to read import file", err))
		return
	}
	h.autoSaver.Stop(locale)

	p, err := h.profileUseCase.ExecuteImportProfile(c.Request.Context(), locale, data)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) AddSkill(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req addSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "invalid skill"))
		return
	}

	p, err := h.profileUseCase.ExecuteAddSkill(c.Request.Context(), locale, req.Name, req.Level)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProfileHandler) RemoveSkill(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req removeSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "invalid skill"))
		return
	}

	p, err := h.profileUseCase.ExecuteRemoveSkill(c.Request.Context(), locale, req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) SetCurrentJob(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid experience index", err))
		return
	}

	var req setCurrentJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "invalid request"))
		return
	}

	p, err := h.profileUseCase.ExecuteSetCurrentJob(c.Request.Context(), locale, index, *req.Current)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	locale, err := localeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	p, err := h.profileUseCase.ExecuteUploadPicture(c.Request.Context(), profileUC.UploadPictureInput{
		Locale:   locale,
		File:     file,
		Filename: fileHeader.Filename,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}
