package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hrportal/internal/api/middleware"
	"hrportal/internal/services"
)

// 同一 IP 每小时最多提交的申请数。
const (
	applyLimitPerHour = 30
	applyLimitWindow  = time.Hour
)

// ApplyForm 渲染申请表。
func (h *Handler) ApplyForm(c *gin.Context) {
	c.HTML(http.StatusOK, "apply.html", gin.H{
		"Company": h.company,
		"JobID":   c.Query("job_id"),
	})
}

// Apply 接收 multipart 申请表与简历文件。
func (h *Handler) Apply(c *gin.Context) {
	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	if h.applyLimiter != nil {
		key := "rate:apply:" + c.ClientIP()
		count, err := incrWithTTL(ctx, h.applyLimiter, key, applyLimitWindow)
		if err != nil {
			// Redis 不可用时放行，避免阻断投递。
			log.Warn("apply rate counter unavailable", "error", err)
		} else if count > applyLimitPerHour {
			Error(c, http.StatusTooManyRequests, "too many applications, please try again later")
			return
		}
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)
	file, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(c, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		BadRequest(c, "resume file is required")
		return
	}
	if file.Size > h.maxUploadBytes {
		Error(c, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer fileReader.Close()
	data, err := io.ReadAll(fileReader)
	if err != nil {
		Internal(c, "failed to read file")
		return
	}

	formID, err := h.svc.Apply(ctx, services.ApplyInput{
		JobID:      c.PostForm("job_id"),
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Phone:      c.PostForm("phone_number"),
		ResumeName: file.Filename,
		Resume:     data,
	})
	if err != nil {
		respondError(c, "apply", err)
		return
	}
	c.HTML(http.StatusOK, "submitted.html", gin.H{
		"Message": fmt.Sprintf("Application submitted successfully! Your Form ID is %s", formID),
	})
}

// ListApplicants 返回某职位的申请人列表。
func (h *Handler) ListApplicants(c *gin.Context) {
	jobID := c.Param("job_id")
	applicants, err := h.svc.ListApplicants(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, "list applicants", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"job_id":     jobID,
		"applicants": applicants,
	})
}

// ResumeTexts 返回某职位全部简历的文本内容。
func (h *Handler) ResumeTexts(c *gin.Context) {
	jobID := c.Param("job_id")
	texts, err := h.svc.ResumeTexts(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, "extract resumes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"job_id":  jobID,
		"resumes": texts,
	})
}
