package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// GetEmployee 返回员工档案及假期余额。
func (h *Handler) GetEmployee(c *gin.Context) {
	profile, err := h.svc.GetEmployee(c.Request.Context(), c.Param("emp_id"))
	if err != nil {
		respondError(c, "get employee", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SendEmail 发送 Markdown 邮件。
func (h *Handler) SendEmail(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if err := h.svc.SendEmail(c.Request.Context(), req.To, req.Subject, req.Body); err != nil {
		respondError(c, "send email", err)
		return
	}
	Success(c, http.StatusOK, gin.H{"message": "Email sent successfully"})
}
