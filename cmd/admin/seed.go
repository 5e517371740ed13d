package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"hrportal/internal/database"
)

type seedLeave struct {
	LeaveID         string `json:"leave_id"`
	AvaliableLeaves int    `json:"avaliable_leaves"`
}

type seedEmployee struct {
	EmpID         string      `json:"emp_id"`
	EmployeeName  string      `json:"employee_name"`
	EmailID       string      `json:"email_id"`
	Department    string      `json:"department"`
	DateOfJoining string      `json:"date_of_joining"`
	Leaves        []seedLeave `json:"leaves"`
}

// parseEmployees 读取与 GET /employee/:emp_id 响应同构的 JSON 数组。
func parseEmployees(r io.Reader) ([]database.Employee, []database.EmployeeLeave, error) {
	var rows []seedEmployee
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rows); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}

	employees := make([]database.Employee, 0, len(rows))
	var leaves []database.EmployeeLeave
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		empID := strings.TrimSpace(row.EmpID)
		if empID == "" {
			return nil, nil, fmt.Errorf("row %d: emp_id is required", i+1)
		}
		if _, dup := seen[empID]; dup {
			return nil, nil, fmt.Errorf("row %d: duplicate emp_id %s", i+1, empID)
		}
		seen[empID] = struct{}{}

		emp := database.Employee{
			EmpID:        empID,
			EmployeeName: strings.TrimSpace(row.EmployeeName),
			EmailID:      strings.TrimSpace(row.EmailID),
			Department:   strings.TrimSpace(row.Department),
		}
		if row.DateOfJoining != "" {
			d, err := database.ParseDate(row.DateOfJoining)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d: date_of_joining: %w", i+1, err)
			}
			emp.DateOfJoining = d
		}
		employees = append(employees, emp)

		for j, l := range row.Leaves {
			leaveID := strings.TrimSpace(l.LeaveID)
			if leaveID == "" {
				leaveID = fmt.Sprintf("%s-L%d", empID, j+1)
			}
			leaves = append(leaves, database.EmployeeLeave{
				LeaveID:         leaveID,
				EmpID:           empID,
				AvaliableLeaves: l.AvaliableLeaves,
			})
		}
	}
	return employees, leaves, nil
}
