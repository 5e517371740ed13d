package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hrportal/internal/api/middleware"
	"hrportal/internal/services"
)

type generateSlipRequest struct {
	EmployeeID string           `json:"employee_id"`
	Salary     *decimal.Decimal `json:"salary"`
	SendEmail  bool             `json:"send_email"`
}

// GenerateSalarySlip 计算并保存工资条，PDF 由 worker 异步生成。
func (h *Handler) GenerateSalarySlip(c *gin.Context) {
	var req generateSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: employee_id and numeric salary are required")
		return
	}
	res, err := h.svc.GenerateSalarySlip(c.Request.Context(), services.GenerateSlipInput{
		EmpID:         req.EmployeeID,
		Gross:         req.Salary,
		SendEmail:     req.SendEmail,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		respondError(c, "generate salary slip", err)
		return
	}
	Success(c, http.StatusAccepted, gin.H{
		"message": "Salary slip generated",
		"slip":    res,
	})
}

// SalarySlipLink 返回最新一张工资条的下载链接。
func (h *Handler) SalarySlipLink(c *gin.Context) {
	link, err := h.svc.SalarySlipLink(c.Request.Context(), c.Param("emp_id"))
	if err != nil {
		respondError(c, "salary slip link", err)
		return
	}
	Success(c, http.StatusOK, gin.H{
		"slip_id":       link.SlipID,
		"download_link": link.URL,
	})
}

// DownloadSlip 以附件形式输出工资条 PDF。
func (h *Handler) DownloadSlip(c *gin.Context) {
	filename := c.Param("filename")
	rc, meta, err := h.svc.OpenSalarySlip(c.Request.Context(), filename)
	if err != nil {
		respondError(c, "download salary slip", err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, meta.Size, "application/pdf", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	})
}
