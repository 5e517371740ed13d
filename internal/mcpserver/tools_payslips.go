package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shopspring/decimal"

	"hrportal/internal/services"
)

func (s *Server) registerPayslipTools() {
	generateTool := mcp.NewTool("generate_salary_slip",
		mcp.WithDescription("Compute tax, PF and net pay for an employee, save the salary slip and queue its PDF"),
	)
	generateTool.InputSchema = objectSchema(map[string]interface{}{
		"employee_id": prop("string", "Employee ID"),
		"salary":      prop("number", "Gross monthly salary"),
		"send_email":  prop("boolean", "Email the PDF to the employee once rendered (default false)"),
	}, "employee_id", "salary")
	s.addTool(generateTool, s.generateSalarySlip)

	linkTool := mcp.NewTool("get_salary_slip_link",
		mcp.WithDescription("Get the download link of an employee's latest rendered salary slip"),
	)
	linkTool.InputSchema = objectSchema(map[string]interface{}{
		"emp_id": prop("string", "Employee ID"),
	}, "emp_id")
	s.addTool(linkTool, s.getSalarySlipLink)
}

func (s *Server) generateSalarySlip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	empID := stringArg(args, "employee_id")
	if empID == "" {
		return mcp.NewToolResultError("employee_id is required"), nil
	}

	var gross *decimal.Decimal
	switch v := args["salary"].(type) {
	case float64:
		d := decimal.NewFromFloat(v)
		gross = &d
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return mcp.NewToolResultError("salary must be a number"), nil
		}
		gross = &d
	case nil:
		return mcp.NewToolResultError("salary is required"), nil
	default:
		return mcp.NewToolResultError("salary must be a number"), nil
	}
	sendEmail, _ := args["send_email"].(bool)

	res, err := s.svc.GenerateSalarySlip(ctx, services.GenerateSlipInput{
		EmpID:     empID,
		Gross:     gross,
		SendEmail: sendEmail,
	})
	if err != nil {
		return s.toolError("generate_salary_slip", err)
	}
	return jsonResult(res)
}

func (s *Server) getSalarySlipLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	empID := stringArg(args, "emp_id")
	if empID == "" {
		return mcp.NewToolResultError("emp_id is required"), nil
	}
	link, err := s.svc.SalarySlipLink(ctx, empID)
	if err != nil {
		return s.toolError("get_salary_slip_link", err)
	}
	return jsonResult(link)
}
