package api

import (
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"hrportal/internal/services"
	"hrportal/internal/store"
)

// displayPolicy 过滤职位描述中的脚本与事件属性，只保留排版标签。
var displayPolicy = bluemonday.UGCPolicy()

// Home 渲染职位列表首页。
func (h *Handler) Home(c *gin.Context) {
	cards, err := h.svc.JobBoard(c.Request.Context())
	if err != nil {
		respondError(c, "load job board", err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Company": h.company,
		"Jobs":    cards,
	})
}

// JobDetail 渲染职位详情页。
func (h *Handler) JobDetail(c *gin.Context) {
	job, err := h.svc.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Company": h.company, "Message": "Job not found"})
			return
		}
		respondError(c, "load job", err)
		return
	}
	c.HTML(http.StatusOK, "job.html", gin.H{
		"Company": h.company,
		"Job":     job,
		"Body":    template.HTML(displayPolicy.Sanitize(job.HTML)),
	})
}

// ListJobs 返回 JSON 职位列表。
func (h *Handler) ListJobs(c *gin.Context) {
	jobs, err := h.svc.ListJobs(c.Request.Context())
	if err != nil {
		respondError(c, "list jobs", err)
		return
	}
	Success(c, http.StatusOK, gin.H{"jobs": jobs})
}

// PostJob 处理 JSON 职位发布请求。
func (h *Handler) PostJob(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxUploadBytes))
	if err != nil {
		BadRequest(c, "failed to read request body")
		return
	}
	description, err := services.DescriptionFromJSON(raw)
	if err != nil {
		respondError(c, "post job", err)
		return
	}
	jobID, err := h.svc.PostJob(c.Request.Context(), description)
	if err != nil {
		respondError(c, "post job", err)
		return
	}
	Success(c, http.StatusOK, gin.H{
		"message": "Job posted successfully",
		"job_id":  jobID,
	})
}

// PostJobForm 处理首页表单发布的职位，成功后跳回首页。
func (h *Handler) PostJobForm(c *gin.Context) {
	err := h.svc.PostJobForm(c.Request.Context(), c.PostForm("job_id"), c.PostForm("job_description"))
	if err != nil {
		respondError(c, "post job form", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
