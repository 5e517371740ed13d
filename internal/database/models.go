package database

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DateLayout 是所有日期字段对外输出的格式。
const DateLayout = "2006-01-02"

// JobPosting 表示一条职位发布（jd_details）。
type JobPosting struct {
	JobID          string         `gorm:"column:job_id;primaryKey;size:16"`
	JobDescription string         `gorm:"column:job_description;type:text"`
	JobDate        datatypes.Date `gorm:"column:job_date;index"`
}

func (JobPosting) TableName() string   { return "jd_details" }
func (j JobPosting) RecordKey() string { return j.JobID }

// Application 表示候选人针对某个职位提交的申请（job_form）。
type Application struct {
	FormID      string         `gorm:"column:form_id;primaryKey;size:16"`
	JobID       string         `gorm:"column:job_id;index;size:16"`
	Name        string         `gorm:"column:name;size:255"`
	Email       string         `gorm:"column:email;size:255"`
	PhoneNumber string         `gorm:"column:phone_number;size:64"`
	Resume      string         `gorm:"column:resume;size:255"`
	FormDate    datatypes.Date `gorm:"column:form_date;index"`
}

func (Application) TableName() string   { return "job_form" }
func (a Application) RecordKey() string { return a.FormID }

// Employee 是外部维护的员工档案（employee_details）。
type Employee struct {
	EmpID         string         `gorm:"column:emp_id;primaryKey;size:32"`
	EmployeeName  string         `gorm:"column:employee_name;size:255"`
	EmailID       string         `gorm:"column:email_id;size:255"`
	Department    string         `gorm:"column:department;size:128"`
	DateOfJoining datatypes.Date `gorm:"column:date_of_joining"`
}

func (Employee) TableName() string   { return "employee_details" }
func (e Employee) RecordKey() string { return e.EmpID }

// EmployeeLeave 记录员工某类假期的剩余天数。
// 列名 avaliable_leaves 沿用既有数据表的拼写。
type EmployeeLeave struct {
	LeaveID         string `gorm:"column:leave_id;primaryKey;size:32"`
	EmpID           string `gorm:"column:emp_id;index;size:32"`
	AvaliableLeaves int    `gorm:"column:avaliable_leaves"`
}

func (EmployeeLeave) TableName() string   { return "employee_leaves" }
func (l EmployeeLeave) RecordKey() string { return l.LeaveID }

// SalarySlip 表示一张工资条（salary_slips），PdfKey 在 worker 渲染完成后写入。
type SalarySlip struct {
	SlipID      string          `gorm:"column:slip_id;primaryKey;size:16"`
	EmpID       string          `gorm:"column:emp_id;index;size:32"`
	GrossSalary decimal.Decimal `gorm:"column:gross_salary;type:numeric(12,2)"`
	Tax         decimal.Decimal `gorm:"column:tax;type:numeric(12,2)"`
	PF          decimal.Decimal `gorm:"column:pf;type:numeric(12,2)"`
	NetSalary   decimal.Decimal `gorm:"column:net_salary;type:numeric(12,2)"`
	SlipDate    datatypes.Date  `gorm:"column:slip_date;index"`
	PdfKey      string          `gorm:"column:pdf_key;size:512"`
	// 生成时使用的扣款比例，工资条展示以此为准。
	TaxPercent  decimal.Decimal `gorm:"column:tax_percent;type:numeric(5,2)"`
	PFPercent   decimal.Decimal `gorm:"column:pf_percent;type:numeric(5,2)"`
}

func (SalarySlip) TableName() string   { return "salary_slips" }
func (s SalarySlip) RecordKey() string { return s.SlipID }

// NewDate 截断到日期（本地时区）。
func NewDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}

// FormatDate 以 YYYY-MM-DD 输出日期。
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// ParseDate 解析 YYYY-MM-DD（兼容带时间部分的旧数据）。
func ParseDate(s string) (datatypes.Date, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}
