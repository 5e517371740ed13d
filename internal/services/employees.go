package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrportal/internal/database"
	"hrportal/internal/store"
)

// Leave 是员工的一条假期余额。
type Leave struct {
	LeaveID         string `json:"leave_id"`
	AvaliableLeaves int    `json:"avaliable_leaves"`
}

// EmployeeProfile 是员工档案及其假期余额。
type EmployeeProfile struct {
	EmpID         string  `json:"emp_id"`
	EmployeeName  string  `json:"employee_name"`
	EmailID       string  `json:"email_id"`
	Department    string  `json:"department"`
	DateOfJoining string  `json:"date_of_joining"`
	Leaves        []Leave `json:"leaves"`
}

// GetEmployee 返回员工档案；不存在时返回 store.ErrNotFound。
func (s *Service) GetEmployee(ctx context.Context, empID string) (EmployeeProfile, error) {
	empID = strings.TrimSpace(empID)
	if empID == "" {
		return EmployeeProfile{}, fmt.Errorf("%w: emp_id is required", ErrInvalidInput)
	}
	emp, err := s.repos.Employees.Get(ctx, empID)
	if err != nil {
		return EmployeeProfile{}, err
	}
	leaves, err := s.repos.Leaves.List(ctx, store.ListOptions{Filter: map[string]string{"emp_id": empID}})
	if err != nil {
		return EmployeeProfile{}, fmt.Errorf("list leaves: %w", err)
	}

	profile := EmployeeProfile{
		EmpID:         emp.EmpID,
		EmployeeName:  emp.EmployeeName,
		EmailID:       emp.EmailID,
		Department:    emp.Department,
		DateOfJoining: database.FormatDate(emp.DateOfJoining),
		Leaves:        make([]Leave, 0, len(leaves)),
	}
	for _, l := range leaves {
		profile.Leaves = append(profile.Leaves, Leave{LeaveID: l.LeaveID, AvaliableLeaves: l.AvaliableLeaves})
	}
	return profile, nil
}

// ImportResult 统计一次导入中新增与跳过的记录数。
type ImportResult struct {
	Employees int
	Leaves    int
	Skipped   int
}

// ImportEmployees 导入员工档案与假期余额，已存在的编号会被跳过。
func (s *Service) ImportEmployees(ctx context.Context, employees []database.Employee, leaves []database.EmployeeLeave) (ImportResult, error) {
	var res ImportResult
	for _, e := range employees {
		if strings.TrimSpace(e.EmpID) == "" {
			return res, fmt.Errorf("%w: employee without emp_id", ErrInvalidInput)
		}
		err := s.repos.Employees.Insert(ctx, e)
		switch {
		case err == nil:
			res.Employees++
		case errors.Is(err, store.ErrDuplicateID):
			res.Skipped++
		default:
			return res, fmt.Errorf("import employee %s: %w", e.EmpID, err)
		}
	}
	for _, l := range leaves {
		if strings.TrimSpace(l.LeaveID) == "" {
			return res, fmt.Errorf("%w: leave without leave_id", ErrInvalidInput)
		}
		err := s.repos.Leaves.Insert(ctx, l)
		switch {
		case err == nil:
			res.Leaves++
		case errors.Is(err, store.ErrDuplicateID):
			res.Skipped++
		default:
			return res, fmt.Errorf("import leave %s: %w", l.LeaveID, err)
		}
	}
	return res, nil
}
