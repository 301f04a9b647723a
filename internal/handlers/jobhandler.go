package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/dtos"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/services"
)

type JobHandler struct {
	JobService *services.JobService
	Logger     logrus.FieldLogger
}

func NewJobHandler(j *services.JobService, logger logrus.FieldLogger) *JobHandler {
	return &JobHandler{JobService: j, Logger: logger}
}

// CreateJob is POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// ListJobs is GET /jobs?status=
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.ListJobs(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// ListPublicJobs is GET /jobs/public
func (h *JobHandler) ListPublicJobs(c *gin.Context) {
	jobs, err := h.JobService.ListPublicJobs(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	job, err := h.JobService.GetJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.Logger, bindingError(err))
		return
	}
	job, err := h.JobService.UpdateJob(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) CloseJob(c *gin.Context) {
	h.changeStatus(c, h.JobService.CloseJob)
}

func (h *JobHandler) ReopenJob(c *gin.Context) {
	h.changeStatus(c, h.JobService.ReopenJob)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if err := h.JobService.DeleteJob(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JobHandler) changeStatus(c *gin.Context, change func(ctx context.Context, id uint) (*models.Job, error)) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	job, err := change(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
