package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hrportal/internal/database"
	"hrportal/internal/ids"
	"hrportal/internal/jobdesc"
	"hrportal/internal/store"
)

// 首页卡片预览的单词数。
const previewWords = 40

// JobSummary 是 /jobs 列表中的一项。
type JobSummary struct {
	JobID    string `json:"job_id"`
	Title    string `json:"job_title"`
	Location string `json:"job_location"`
	Summary  string `json:"job_summary"`
	Date     string `json:"job_date"`
}

// JobCard 是首页职位卡片。
type JobCard struct {
	JobID    string
	Title    string
	Location string
	Preview  string
	Date     string
}

// JobDetail 是职位详情页数据，HTML 为展示用的片段。
type JobDetail struct {
	JobID       string
	Title       string
	Location    string
	Date        string
	HTML        string
	Description string
}

func (s *Service) newestJobs(ctx context.Context) ([]database.JobPosting, error) {
	jobs, err := s.repos.Jobs.List(ctx, store.ListOptions{OrderBy: "job_date", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// ListJobs 返回按发布日期倒序的职位摘要。
func (s *Service) ListJobs(ctx context.Context) ([]JobSummary, error) {
	jobs, err := s.newestJobs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]JobSummary, 0, len(jobs))
	for _, j := range jobs {
		meta := jobdesc.ExtractMetadata(j.JobDescription)
		out = append(out, JobSummary{
			JobID:    j.JobID,
			Title:    meta.Title,
			Location: meta.Location,
			Summary:  meta.Summary,
			Date:     database.FormatDate(j.JobDate),
		})
	}
	return out, nil
}

// JobBoard 返回首页展示的职位卡片。
func (s *Service) JobBoard(ctx context.Context) ([]JobCard, error) {
	jobs, err := s.newestJobs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]JobCard, 0, len(jobs))
	for _, j := range jobs {
		preview := jobdesc.ToPlainPreview(jobdesc.ToDisplayHTML(j.JobDescription))
		if preview == "" {
			preview = jobdesc.Clean(j.JobDescription)
		}
		out = append(out, JobCard{
			JobID:    j.JobID,
			Title:    jobdesc.ExtractTitle(j.JobDescription),
			Location: jobdesc.ExtractLocationWith(s.location, j.JobDescription),
			Preview:  jobdesc.TruncateWords(preview, previewWords),
			Date:     database.FormatDate(j.JobDate),
		})
	}
	return out, nil
}

// GetJob 返回职位详情；不存在时返回 store.ErrNotFound。
func (s *Service) GetJob(ctx context.Context, jobID string) (JobDetail, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return JobDetail{}, fmt.Errorf("%w: job_id is required", ErrInvalidInput)
	}
	j, err := s.repos.Jobs.Get(ctx, jobID)
	if err != nil {
		return JobDetail{}, err
	}
	return JobDetail{
		JobID:       j.JobID,
		Title:       jobdesc.ExtractTitle(j.JobDescription),
		Location:    jobdesc.ExtractLocationWith(s.location, j.JobDescription),
		Date:        database.FormatDate(j.JobDate),
		HTML:        jobdesc.ToDisplayHTML(j.JobDescription),
		Description: jobdesc.Normalize(j.JobDescription),
	}, nil
}

// DescriptionFromJSON 从 POST /post-job 的 JSON 请求体中取出职位描述文本：
// 优先使用 job_description 字段，否则把结构化字段转换为规范文本。
func DescriptionFromJSON(raw []byte) (string, error) {
	sections, err := jobdesc.DecodeSections(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if v, ok := sections.Get("job_description"); ok {
		switch d := v.(type) {
		case string:
			return d, nil
		case map[string]any:
			// 嵌套对象会丢失字段顺序，重新按原始字节解码。
			return nestedDescription(raw)
		default:
			return "", fmt.Errorf("%w: job_description must be a string or object", ErrInvalidInput)
		}
	}
	if jobdesc.LooksLikeJobDescription(sections) {
		return jobdesc.ToCanonicalText(sections), nil
	}
	return "", fmt.Errorf("%w: no valid job description provided", ErrInvalidInput)
}

func nestedDescription(raw []byte) (string, error) {
	var wrapper struct {
		JobDescription json.RawMessage `json:"job_description"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	inner, err := jobdesc.DecodeSections(wrapper.JobDescription)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return jobdesc.ToCanonicalText(inner), nil
}

// PostJob 校验描述文本并以新分配的 JD 编号保存。
func (s *Service) PostJob(ctx context.Context, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}
	if jobdesc.WordCount(description) < jobdesc.MinWords {
		return "", fmt.Errorf("%w: job description must contain at least %d words", ErrInvalidInput, jobdesc.MinWords)
	}

	today := database.NewDate(s.now())
	id, err := s.seq.WithNextID(ctx, ids.PrefixJob, s.repos.Jobs, func(ctx context.Context, id string) error {
		return s.repos.Jobs.Insert(ctx, database.JobPosting{
			JobID:          id,
			JobDescription: description,
			JobDate:        today,
		})
	})
	if err != nil {
		return "", fmt.Errorf("post job: %w", err)
	}
	s.logger.Info("job posted", "job_id", id)
	return id, nil
}

// PostJobForm 使用调用方提供的编号保存职位（表单入口，不做字数校验）。
func (s *Service) PostJobForm(ctx context.Context, jobID, description string) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" || strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: job_id and job_description are required", ErrInvalidInput)
	}
	// 手工填写的编号同样参与后续自动分配，必须符合 JD + 数字 格式。
	if !ids.Valid(jobID, ids.PrefixJob) {
		return fmt.Errorf("%w: job_id must look like %s", ErrInvalidInput, ids.Format(ids.PrefixJob, 1))
	}
	err := s.repos.Jobs.Insert(ctx, database.JobPosting{
		JobID:          jobID,
		JobDescription: description,
		JobDate:        database.NewDate(s.now()),
	})
	if err != nil {
		return fmt.Errorf("post job form: %w", err)
	}
	return nil
}
