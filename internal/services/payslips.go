package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"hrportal/internal/database"
	"hrportal/internal/ids"
	"hrportal/internal/payroll"
	"hrportal/internal/storage"
	"hrportal/internal/store"
	"hrportal/internal/tasks"
)

// SlipPrefix 是工资条 PDF 在 Bucket 中的目录。
const SlipPrefix = "salary-slips/"

// ErrSlipPending 表示工资条已创建但 PDF 尚未渲染完成。
var ErrSlipPending = errors.New("salary slip is still being generated")

var slipFilenamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+\.pdf$`)

// SlipObjectKey 返回工资条 PDF 的对象键，带上 SP 编号使同一天的多张工资条互不覆盖。
func SlipObjectKey(slipID, empID string, date datatypes.Date) string {
	return fmt.Sprintf("%s%s_%s_%s.pdf", SlipPrefix, empID, database.FormatDate(date), slipID)
}

// GenerateSlipInput 是生成工资条的请求；Gross 为 nil 表示未提供应发工资。
type GenerateSlipInput struct {
	EmpID         string
	Gross         *decimal.Decimal
	SendEmail     bool
	CorrelationID string
}

// SlipResult 描述新建工资条的金额明细。
type SlipResult struct {
	SlipID       string `json:"slip_id"`
	EmpID        string `json:"emp_id"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"slip_date"`
	Gross        string `json:"gross_salary"`
	Tax          string `json:"tax"`
	PF           string `json:"pf"`
	Net          string `json:"net_salary"`
	Status       string `json:"status"`
}

// SlipLink 是最新一张已渲染工资条的下载信息。
type SlipLink struct {
	SlipID   string `json:"slip_id"`
	Filename string `json:"filename"`
	URL      string `json:"download_link"`
}

// GenerateSalarySlip 计算扣款、以新 SP 编号保存工资条，并投递异步 PDF 渲染任务。
func (s *Service) GenerateSalarySlip(ctx context.Context, in GenerateSlipInput) (SlipResult, error) {
	in.EmpID = strings.TrimSpace(in.EmpID)
	if in.EmpID == "" || in.Gross == nil {
		return SlipResult{}, fmt.Errorf("%w: employee_id and salary are required", ErrInvalidInput)
	}
	emp, err := s.repos.Employees.Get(ctx, in.EmpID)
	if err != nil {
		return SlipResult{}, err
	}
	breakdown, err := payroll.Compute(*in.Gross, s.rates)
	if err != nil {
		return SlipResult{}, err
	}

	slip := database.SalarySlip{
		EmpID:       emp.EmpID,
		GrossSalary: breakdown.Gross,
		Tax:         breakdown.Tax,
		PF:          breakdown.PF,
		NetSalary:   breakdown.Net,
		SlipDate:    database.NewDate(s.now()),
		TaxPercent:  s.rates.TaxPercent,
		PFPercent:   s.rates.PFPercent,
	}
	slip.SlipID, err = s.seq.WithNextID(ctx, ids.PrefixSalarySlip, s.repos.SalarySlips, func(ctx context.Context, id string) error {
		rec := slip
		rec.SlipID = id
		return s.repos.SalarySlips.Insert(ctx, rec)
	})
	if err != nil {
		return SlipResult{}, fmt.Errorf("record salary slip: %w", err)
	}

	log := s.logger.With(slog.String("slip_id", slip.SlipID), slog.String("emp_id", emp.EmpID))
	status := "queued"
	if s.tasks != nil {
		task, err := tasks.NewPayslipRenderTask(tasks.PayslipRenderPayload{
			SlipID:        slip.SlipID,
			EmpID:         emp.EmpID,
			SendEmail:     in.SendEmail,
			CorrelationID: in.CorrelationID,
		})
		if err != nil {
			return SlipResult{}, fmt.Errorf("build render task: %w", err)
		}
		if _, err := s.tasks.EnqueueContext(ctx, task); err != nil {
			return SlipResult{}, fmt.Errorf("enqueue render task: %w", err)
		}
	} else {
		status = "saved"
		log.Warn("task queue not configured, payslip pdf will not be rendered")
	}
	log.Info("salary slip generated", slog.String("status", status))

	return SlipResult{
		SlipID:       slip.SlipID,
		EmpID:        emp.EmpID,
		EmployeeName: emp.EmployeeName,
		Date:         database.FormatDate(slip.SlipDate),
		Gross:        slip.GrossSalary.StringFixed(2),
		Tax:          slip.Tax.StringFixed(2),
		PF:           slip.PF.StringFixed(2),
		Net:          slip.NetSalary.StringFixed(2),
		Status:       status,
	}, nil
}

// SalarySlipLink 返回员工最新一张已渲染工资条的下载链接。
// 最新一张仍在渲染时返回 ErrSlipPending；从未生成过时返回 store.ErrNotFound。
func (s *Service) SalarySlipLink(ctx context.Context, empID string) (SlipLink, error) {
	empID = strings.TrimSpace(empID)
	if empID == "" {
		return SlipLink{}, fmt.Errorf("%w: emp_id is required", ErrInvalidInput)
	}
	slips, err := s.repos.SalarySlips.List(ctx, store.ListOptions{
		Filter:  map[string]string{"emp_id": empID},
		OrderBy: "slip_date",
		Desc:    true,
	})
	if err != nil {
		return SlipLink{}, fmt.Errorf("list salary slips: %w", err)
	}
	if len(slips) == 0 {
		return SlipLink{}, fmt.Errorf("%w: no salary slip for %s", store.ErrNotFound, empID)
	}
	for _, slip := range slips {
		if slip.PdfKey == "" {
			continue
		}
		return SlipLink{
			SlipID:   slip.SlipID,
			Filename: path.Base(slip.PdfKey),
			URL:      s.DownloadURL(slip.PdfKey),
		}, nil
	}
	return SlipLink{}, fmt.Errorf("%w: %s", ErrSlipPending, slips[0].SlipID)
}

// DownloadURL 返回工资条 PDF 对外的下载地址。
func (s *Service) DownloadURL(key string) string {
	return s.publicBaseURL + "/download-slip/" + path.Base(key)
}

// OpenSalarySlip 打开工资条 PDF；调用方负责关闭返回的 reader。
func (s *Service) OpenSalarySlip(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectMeta, error) {
	if !slipFilenamePattern.MatchString(filename) || strings.Contains(filename, "..") {
		return nil, storage.ObjectMeta{}, fmt.Errorf("%w: invalid slip file name", ErrInvalidInput)
	}
	rc, meta, err := s.objects.OpenObject(ctx, SlipPrefix+filename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectMeta{}, fmt.Errorf("%w: %s", store.ErrNotFound, filename)
		}
		return nil, storage.ObjectMeta{}, fmt.Errorf("open salary slip: %w", err)
	}
	return rc, meta, nil
}

// PayslipView 是渲染工资条 PDF 所需的全部数据。
type PayslipView struct {
	Company      string
	Period       string
	SlipID       string
	EmpID        string
	EmployeeName string
	EmailID      string
	Department   string
	Date         string
	Gross        string
	Tax          string
	PF           string
	Net          string
	TaxRate      string
	PFRate       string
	ObjectKey    string
}

// PayslipView 读取工资条与员工档案，组装渲染数据。
func (s *Service) PayslipView(ctx context.Context, slipID string) (PayslipView, error) {
	slip, err := s.repos.SalarySlips.Get(ctx, slipID)
	if err != nil {
		return PayslipView{}, err
	}
	emp, err := s.repos.Employees.Get(ctx, slip.EmpID)
	if err != nil {
		return PayslipView{}, err
	}
	// 旧数据没有记录比例时退回当前配置。
	rates := payroll.Rates{TaxPercent: slip.TaxPercent, PFPercent: slip.PFPercent}
	if rates.TaxPercent.IsZero() && rates.PFPercent.IsZero() {
		rates = s.rates
	}
	return PayslipView{
		Company:      s.company,
		Period:       time.Time(slip.SlipDate).Format("January 2006"),
		SlipID:       slip.SlipID,
		EmpID:        emp.EmpID,
		EmployeeName: emp.EmployeeName,
		EmailID:      emp.EmailID,
		Department:   emp.Department,
		Date:         database.FormatDate(slip.SlipDate),
		Gross:        slip.GrossSalary.StringFixed(2),
		Tax:          slip.Tax.StringFixed(2),
		PF:           slip.PF.StringFixed(2),
		Net:          slip.NetSalary.StringFixed(2),
		TaxRate:      payroll.PercentLabel(rates.TaxPercent),
		PFRate:       payroll.PercentLabel(rates.PFPercent),
		ObjectKey:    SlipObjectKey(slip.SlipID, emp.EmpID, slip.SlipDate),
	}, nil
}

// AttachSlipPDF 保存渲染好的 PDF 并回写 pdf_key。
func (s *Service) AttachSlipPDF(ctx context.Context, slipID, key string, data []byte) error {
	if err := s.objects.PutObject(ctx, key, data, "application/pdf"); err != nil {
		return fmt.Errorf("upload salary slip pdf: %w", err)
	}
	if err := s.repos.SalarySlips.Update(ctx, slipID, map[string]any{"pdf_key": key}); err != nil {
		return fmt.Errorf("update salary slip %s: %w", slipID, err)
	}
	return nil
}
