package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"hrportal/internal/database"
)

// CSV 数据集对象名，与关系库表名一一对应。
const (
	DatasetJobs         = "jd_details.csv"
	DatasetApplications = "job_form.csv"
	DatasetEmployees    = "employee_details.csv"
	DatasetLeaves       = "employee_leaves.csv"
	DatasetSalarySlips  = "salary_slips.csv"
)

var jobPostingCodec = Codec[database.JobPosting]{
	Dataset: DatasetJobs,
	Key:     "job_id",
	Columns: []string{"job_id", "job_description", "job_date"},
	Encode: func(j database.JobPosting) []string {
		return []string{j.JobID, j.JobDescription, csvDate(j.JobDate)}
	},
	Decode: func(row map[string]string) (database.JobPosting, error) {
		date, err := parseCSVDate(row["job_date"])
		if err != nil {
			return database.JobPosting{}, fmt.Errorf("job_date: %w", err)
		}
		return database.JobPosting{
			JobID:          strings.TrimSpace(row["job_id"]),
			JobDescription: row["job_description"],
			JobDate:        date,
		}, nil
	},
}

var applicationCodec = Codec[database.Application]{
	Dataset: DatasetApplications,
	Key:     "form_id",
	Columns: []string{"form_id", "job_id", "name", "email", "phone_number", "resume", "form_date"},
	Encode: func(a database.Application) []string {
		return []string{a.FormID, a.JobID, a.Name, a.Email, a.PhoneNumber, a.Resume, csvDate(a.FormDate)}
	},
	Decode: func(row map[string]string) (database.Application, error) {
		date, err := parseCSVDate(row["form_date"])
		if err != nil {
			return database.Application{}, fmt.Errorf("form_date: %w", err)
		}
		return database.Application{
			FormID:      strings.TrimSpace(row["form_id"]),
			JobID:       strings.TrimSpace(row["job_id"]),
			Name:        row["name"],
			Email:       row["email"],
			PhoneNumber: row["phone_number"],
			Resume:      row["resume"],
			FormDate:    date,
		}, nil
	},
}

var employeeCodec = Codec[database.Employee]{
	Dataset: DatasetEmployees,
	Key:     "emp_id",
	Columns: []string{"emp_id", "employee_name", "email_id", "department", "date_of_joining"},
	Encode: func(e database.Employee) []string {
		return []string{e.EmpID, e.EmployeeName, e.EmailID, e.Department, csvDate(e.DateOfJoining)}
	},
	Decode: func(row map[string]string) (database.Employee, error) {
		date, err := parseCSVDate(row["date_of_joining"])
		if err != nil {
			return database.Employee{}, fmt.Errorf("date_of_joining: %w", err)
		}
		return database.Employee{
			EmpID:         strings.TrimSpace(row["emp_id"]),
			EmployeeName:  row["employee_name"],
			EmailID:       row["email_id"],
			Department:    row["department"],
			DateOfJoining: date,
		}, nil
	},
}

var employeeLeaveCodec = Codec[database.EmployeeLeave]{
	Dataset: DatasetLeaves,
	Key:     "leave_id",
	Columns: []string{"leave_id", "emp_id", "avaliable_leaves"},
	Encode: func(l database.EmployeeLeave) []string {
		return []string{l.LeaveID, l.EmpID, strconv.Itoa(l.AvaliableLeaves)}
	},
	Decode: func(row map[string]string) (database.EmployeeLeave, error) {
		n := 0
		if raw := strings.TrimSpace(row["avaliable_leaves"]); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return database.EmployeeLeave{}, fmt.Errorf("avaliable_leaves: %w", err)
			}
			n = v
		}
		return database.EmployeeLeave{
			LeaveID:         strings.TrimSpace(row["leave_id"]),
			EmpID:           strings.TrimSpace(row["emp_id"]),
			AvaliableLeaves: n,
		}, nil
	},
}

var salarySlipCodec = Codec[database.SalarySlip]{
	Dataset: DatasetSalarySlips,
	Key:     "slip_id",
	Columns: []string{"slip_id", "emp_id", "gross_salary", "tax", "pf", "net_salary", "slip_date", "pdf_key", "tax_percent", "pf_percent"},
	Encode: func(s database.SalarySlip) []string {
		return []string{
			s.SlipID, s.EmpID,
			s.GrossSalary.StringFixed(2), s.Tax.StringFixed(2), s.PF.StringFixed(2), s.NetSalary.StringFixed(2),
			csvDate(s.SlipDate), s.PdfKey,
			s.TaxPercent.String(), s.PFPercent.String(),
		}
	},
	Decode: func(row map[string]string) (database.SalarySlip, error) {
		slip := database.SalarySlip{
			SlipID: strings.TrimSpace(row["slip_id"]),
			EmpID:  strings.TrimSpace(row["emp_id"]),
			PdfKey: row["pdf_key"],
		}
		amounts := []struct {
			col string
			dst *decimal.Decimal
		}{
			{"gross_salary", &slip.GrossSalary},
			{"tax", &slip.Tax},
			{"pf", &slip.PF},
			{"net_salary", &slip.NetSalary},
			{"tax_percent", &slip.TaxPercent},
			{"pf_percent", &slip.PFPercent},
		}
		for _, a := range amounts {
			v, err := parseCSVDecimal(row[a.col])
			if err != nil {
				return database.SalarySlip{}, fmt.Errorf("%s: %w", a.col, err)
			}
			*a.dst = v
		}
		date, err := parseCSVDate(row["slip_date"])
		if err != nil {
			return database.SalarySlip{}, fmt.Errorf("slip_date: %w", err)
		}
		slip.SlipDate = date
		return slip, nil
	},
}

func csvDate(d datatypes.Date) string {
	if time.Time(d).IsZero() {
		return ""
	}
	return database.FormatDate(d)
}

func parseCSVDate(raw string) (datatypes.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return datatypes.Date{}, nil
	}
	return database.ParseDate(raw)
}

func parseCSVDecimal(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// csvValue 把 Update 传入的字段值转换为 CSV 单元格文本。
func csvValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case datatypes.Date:
		return csvDate(x)
	case time.Time:
		return csvDate(database.NewDate(x))
	case decimal.Decimal:
		return x.StringFixed(2)
	default:
		return fmt.Sprint(x)
	}
}
