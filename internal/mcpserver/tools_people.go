package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPeopleTools() {
	applicantsTool := mcp.NewTool("list_applicants",
		mcp.WithDescription("List applicants for a job, newest first"),
	)
	applicantsTool.InputSchema = objectSchema(map[string]interface{}{
		"job_id": prop("string", "Job ID, e.g. JD001"),
	}, "job_id")
	s.addTool(applicantsTool, s.listApplicants)

	resumesTool := mcp.NewTool("get_resume_texts",
		mcp.WithDescription("Extract the plain text of every applicant's PDF resume for a job, keyed by form ID"),
	)
	resumesTool.InputSchema = objectSchema(map[string]interface{}{
		"job_id": prop("string", "Job ID, e.g. JD001"),
	}, "job_id")
	s.addTool(resumesTool, s.getResumeTexts)

	employeeTool := mcp.NewTool("get_employee",
		mcp.WithDescription("Get an employee profile together with leave balances"),
	)
	employeeTool.InputSchema = objectSchema(map[string]interface{}{
		"emp_id": prop("string", "Employee ID"),
	}, "emp_id")
	s.addTool(employeeTool, s.getEmployee)

	emailTool := mcp.NewTool("send_email",
		mcp.WithDescription("Send an email; the body is Markdown and is delivered as HTML with a plain-text alternative"),
	)
	emailTool.InputSchema = objectSchema(map[string]interface{}{
		"to":      prop("string", "Recipient address"),
		"subject": prop("string", "Subject line"),
		"body":    prop("string", "Markdown body"),
	}, "to", "subject", "body")
	s.addTool(emailTool, s.sendEmail)
}

func (s *Server) listApplicants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	jobID := stringArg(args, "job_id")
	if jobID == "" {
		return mcp.NewToolResultError("job_id is required"), nil
	}
	applicants, err := s.svc.ListApplicants(ctx, jobID)
	if err != nil {
		return s.toolError("list_applicants", err)
	}
	return jsonResult(map[string]any{"job_id": jobID, "applicants": applicants})
}

func (s *Server) getResumeTexts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	jobID := stringArg(args, "job_id")
	if jobID == "" {
		return mcp.NewToolResultError("job_id is required"), nil
	}
	texts, err := s.svc.ResumeTexts(ctx, jobID)
	if err != nil {
		return s.toolError("get_resume_texts", err)
	}
	return jsonResult(texts)
}

func (s *Server) getEmployee(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	empID := stringArg(args, "emp_id")
	if empID == "" {
		return mcp.NewToolResultError("emp_id is required"), nil
	}
	profile, err := s.svc.GetEmployee(ctx, empID)
	if err != nil {
		return s.toolError("get_employee", err)
	}
	return jsonResult(profile)
}

func (s *Server) sendEmail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	to := stringArg(args, "to")
	if err := s.svc.SendEmail(ctx, to, stringArg(args, "subject"), stringArg(args, "body")); err != nil {
		return s.toolError("send_email", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Email sent to %s", to)), nil
}
