package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"hrportal/internal/jobdesc"
	"hrportal/internal/services"
)

func (s *Server) registerJobTools() {
	listTool := mcp.NewTool("list_jobs",
		mcp.WithDescription("List all job postings, newest first, with title, location and summary"),
	)
	listTool.InputSchema = objectSchema(map[string]interface{}{})
	s.addTool(listTool, s.listJobs)

	getTool := mcp.NewTool("get_job",
		mcp.WithDescription("Get one job posting with its metadata and full description"),
	)
	getTool.InputSchema = objectSchema(map[string]interface{}{
		"job_id": prop("string", "Job ID, e.g. JD001"),
	}, "job_id")
	s.addTool(getTool, s.getJob)

	postTool := mcp.NewTool("post_job",
		mcp.WithDescription("Publish a new job. Pass job_description as text (at least 10 words), or the sections \"Job Title\", \"Job Location\", \"Summary\", \"Responsibilities\", \"Required Skills\""),
	)
	postTool.InputSchema = objectSchema(map[string]interface{}{
		"job_description":  prop("string", "Full description text"),
		"Job Title":        prop("string", "Job title"),
		"Job Location":     prop("string", "Job location"),
		"Summary":          prop("string", "Short summary of the role"),
		"Responsibilities": prop("array", "Key responsibilities"),
		"Required Skills":  prop("array", "Required skills"),
	})
	s.addTool(postTool, s.postJob)
}

func (s *Server) listJobs(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobs, err := s.svc.ListJobs(ctx)
	if err != nil {
		return s.toolError("list_jobs", err)
	}
	return jsonResult(jobs)
}

func (s *Server) getJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	jobID := stringArg(args, "job_id")
	if jobID == "" {
		return mcp.NewToolResultError("job_id is required"), nil
	}
	job, err := s.svc.GetJob(ctx, jobID)
	if err != nil {
		return s.toolError("get_job", err)
	}
	return jsonResult(map[string]string{
		"job_id":          job.JobID,
		"job_title":       job.Title,
		"job_location":    job.Location,
		"job_date":        job.Date,
		"job_description": job.Description,
	})
}

func (s *Server) postJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	// 与 HTTP 接口共用同一套 JSON 解析规则。
	raw, err := json.Marshal(orderedSections(args))
	if err != nil {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	description, err := services.DescriptionFromJSON(raw)
	if err != nil {
		return s.toolError("post_job", err)
	}
	jobID, err := s.svc.PostJob(ctx, description)
	if err != nil {
		return s.toolError("post_job", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Job posted successfully with ID %s", jobID)), nil
}

// sectionOrder 是 JD 段落的展示顺序；工具参数以 map 到达，原始顺序已丢失。
var sectionOrder = []string{"job_description", "Job Title", "Job Location", "Summary", "Responsibilities", "Required Skills"}

func orderedSections(args map[string]interface{}) *jobdesc.Sections {
	sections := jobdesc.NewSections()
	for _, key := range sectionOrder {
		if v, ok := args[key]; ok {
			sections.Set(key, v)
		}
	}
	rest := make([]string, 0, len(args))
	for key := range args {
		if _, ok := sections.Get(key); !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		sections.Set(key, args[key])
	}
	return sections
}
