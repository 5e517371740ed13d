package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"hrportal/internal/database"
	"hrportal/internal/ids"
	"hrportal/internal/pdf"
	"hrportal/internal/store"
	"hrportal/internal/upload"
)

// ResumePrefix 是简历文件在 Bucket 中的目录。
const ResumePrefix = "resumes/"

// ApplyInput 是候选人提交的申请表。
type ApplyInput struct {
	JobID      string
	Name       string
	Email      string
	Phone      string
	ResumeName string
	Resume     []byte
}

// Applicant 是 /api/applicants 返回的一项。
type Applicant struct {
	FormID     string `json:"form_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	ResumeFile string `json:"resume_file"`
	AppliedOn  string `json:"applied_on"`
}

// ResumeObjectKey 返回简历文件的对象键；stored 为申请记录中保存的文件名（FM 编号_原文件名）。
func ResumeObjectKey(stored string) string {
	return ResumePrefix + stored
}

// Apply 保存简历并以新分配的 FM 编号记录申请。
func (s *Service) Apply(ctx context.Context, in ApplyInput) (string, error) {
	in.JobID = strings.TrimSpace(in.JobID)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.JobID == "" || in.Name == "" || in.Email == "" {
		return "", fmt.Errorf("%w: job_id, name and email are required", ErrInvalidInput)
	}
	if len(in.Resume) == 0 {
		return "", fmt.Errorf("%w: resume file is required", ErrInvalidInput)
	}
	filename := upload.SanitizeFilename(in.ResumeName)
	if filename == "" {
		return "", fmt.Errorf("%w: resume file name is invalid", ErrInvalidInput)
	}

	if err := s.scanner.Scan(ctx, bytes.NewReader(in.Resume)); err != nil {
		if errors.Is(err, upload.ErrInfected) {
			s.logger.Warn("rejected infected resume", slog.String("file", filename))
			return "", err
		}
		return "", fmt.Errorf("scan resume: %w", err)
	}

	contentType := http.DetectContentType(in.Resume)
	today := database.NewDate(s.now())
	formID, err := s.seq.WithNextID(ctx, ids.PrefixApplication, s.repos.Applications, func(ctx context.Context, id string) error {
		// 以申请编号区分同名简历。
		stored := id + "_" + filename
		key := ResumeObjectKey(stored)
		if err := s.objects.PutObject(ctx, key, in.Resume, contentType); err != nil {
			return fmt.Errorf("store resume: %w", err)
		}
		err := s.repos.Applications.Insert(ctx, database.Application{
			FormID:      id,
			JobID:       in.JobID,
			Name:        in.Name,
			Email:       in.Email,
			PhoneNumber: in.Phone,
			Resume:      stored,
			FormDate:    today,
		})
		if err != nil {
			if delErr := s.objects.DeleteObject(ctx, key); delErr != nil {
				s.logger.Warn("remove orphaned resume failed", slog.String("key", key), slog.Any("error", delErr))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("record application: %w", err)
	}
	s.logger.Info("application received", slog.String("form_id", formID), slog.String("job_id", in.JobID))
	return formID, nil
}

func (s *Service) applicationsFor(ctx context.Context, jobID string) ([]database.Application, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: job_id is required", ErrInvalidInput)
	}
	apps, err := s.repos.Applications.List(ctx, store.ListOptions{
		Filter:  map[string]string{"job_id": jobID},
		OrderBy: "form_date",
		Desc:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ListApplicants 返回某职位的申请人，最新的在前。
func (s *Service) ListApplicants(ctx context.Context, jobID string) ([]Applicant, error) {
	apps, err := s.applicationsFor(ctx, jobID)
	if err != nil {
		return nil, err
	}
	out := make([]Applicant, 0, len(apps))
	for _, a := range apps {
		out = append(out, Applicant{
			FormID:     a.FormID,
			Name:       a.Name,
			Email:      a.Email,
			Phone:      a.PhoneNumber,
			ResumeFile: a.Resume,
			AppliedOn:  database.FormatDate(a.FormDate),
		})
	}
	return out, nil
}

// ResumeTexts 提取某职位全部申请人 PDF 简历的文本，以申请编号为键。
// 单份简历读取失败只记录日志，不影响其它简历；没有申请人时返回 store.ErrNotFound。
func (s *Service) ResumeTexts(ctx context.Context, jobID string) (map[string]string, error) {
	apps, err := s.applicationsFor(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, fmt.Errorf("%w: no applicants for %s", store.ErrNotFound, jobID)
	}

	out := make(map[string]string, len(apps))
	for _, a := range apps {
		log := s.logger.With(slog.String("form_id", a.FormID), slog.String("resume", a.Resume))
		data, err := s.objects.ReadObject(ctx, ResumeObjectKey(a.Resume))
		if err != nil {
			log.Warn("read resume failed", slog.Any("error", err))
			out[a.FormID] = ""
			continue
		}
		text, err := pdf.ExtractText(data)
		if err != nil {
			log.Warn("extract resume text failed", slog.Any("error", err))
		}
		out[a.FormID] = text
	}
	return out, nil
}
