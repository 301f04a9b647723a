package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/dtos"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/services"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
	Logger       logrus.FieldLogger
}

func NewApplicationHandler(apps *services.ApplicationService, logger logrus.FieldLogger) *ApplicationHandler {
	return &ApplicationHandler{Applications: apps, Logger: logger}
}

// Submit is the public POST /applications multipart endpoint.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var form dtos.ApplicationForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	skills, err := parseSkills(form.Skills)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	input := services.SubmitApplicationInput{
		Name:        form.Name,
		Email:       form.Email,
		Position:    form.Position,
		Company:     form.Company,
		Phone:       form.Phone,
		Skills:      skills,
		CoverLetter: form.CoverLetter,
		JobID:       form.JobID,
	}

	var upload *services.ResumeUpload
	if form.Resume != nil {
		file, err := form.Resume.Open()
		if err != nil {
			respondError(c, h.Logger, apperrors.ValidationFields("resume could not be read", map[string]string{"resume": "unreadable"}))
			return
		}
		defer file.Close()
		upload = &services.ResumeUpload{
			Filename: form.Resume.Filename,
			Size:     form.Resume.Size,
			Content:  file,
		}
	}

	app, err := h.Applications.Submit(c.Request.Context(), input, upload)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) List(c *gin.Context) {
	var query dtos.ApplicationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	apps, err := h.Applications.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// Export streams the filtered list as CSV.
func (h *ApplicationHandler) Export(c *gin.Context) {
	var query dtos.ApplicationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	filename := fmt.Sprintf("applications-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
	if err := h.Applications.ExportCSV(c.Request.Context(), query, c.Writer); err != nil {
		h.Logger.WithError(err).Error("csv export failed")
	}
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	app, err := h.Applications.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Resume(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	file, err := h.Applications.Resume(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Header("Content-Type", file.ContentType)
	c.FileAttachment(file.Path, file.FileName)
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	var req dtos.ApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	app, err := h.Applications.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	app, err := h.Applications.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if err := h.Applications.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseSkills accepts a JSON list of strings; an empty field means no skills.
func parseSkills(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	var skills []string
	if err := json.Unmarshal([]byte(raw), &skills); err != nil {
		return nil, apperrors.ValidationFields("skills must be a JSON array of strings",
			map[string]string{"skills": "invalid JSON"})
	}
	if skills == nil {
		skills = []string{}
	}
	return skills, nil
}
