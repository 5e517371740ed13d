package worker

import (
	"bytes"
	"fmt"
	"html/template"

	"hrportal/internal/services"
)

// payslipTemplateString 是工资条 PDF 的 HTML 模板，按 A4 纵向排版。
const payslipTemplateString = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        @page { size: A4; margin: 18mm; }
        body { font-family: Helvetica, Arial, sans-serif; font-size: 11pt; color: #222; }
        .company { text-align: center; font-size: 20pt; font-weight: bold; margin-bottom: 4px; }
        .title { text-align: center; font-size: 13pt; margin-bottom: 24px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { border: 1px solid #999; padding: 8px 10px; text-align: left; }
        th { background: #f0f0f0; width: 40%; }
        tr.net th, tr.net td { font-weight: bold; }
        .footer { margin-top: 32px; font-size: 9pt; color: #666; text-align: center; }
    </style>
</head>
<body>
    <div class="company">{{.Company}}</div>
    <div class="title">Salary Slip for {{.Period}}</div>
    <table>
        <tr><th>Slip ID</th><td>{{.SlipID}}</td></tr>
        <tr><th>Employee ID</th><td>{{.EmpID}}</td></tr>
        {{if .EmployeeName}}<tr><th>Employee Name</th><td>{{.EmployeeName}}</td></tr>{{end}}
        {{if .Department}}<tr><th>Department</th><td>{{.Department}}</td></tr>{{end}}
        <tr><th>Date</th><td>{{.Date}}</td></tr>
        <tr><th>Gross Salary</th><td>{{.Gross}}</td></tr>
        <tr><th>Tax ({{.TaxRate}})</th><td>{{.Tax}}</td></tr>
        <tr><th>PF ({{.PFRate}})</th><td>{{.PF}}</td></tr>
        <tr class="net"><th>Net Salary</th><td>{{.Net}}</td></tr>
    </table>
    <div class="footer">This is a system generated salary slip.</div>
</body>
</html>
`

var payslipTemplate = template.Must(template.New("payslip").Parse(payslipTemplateString))

// renderPayslipHTML 填充工资条模板，字段内容会被转义。
func renderPayslipHTML(view services.PayslipView) (string, error) {
	var buf bytes.Buffer
	if err := payslipTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("execute payslip template: %w", err)
	}
	return buf.String(), nil
}
