// Package store 提供 HR 记录的持久化抽象：同一套 Repository 接口，
// 分别由 PostgreSQL（GORM）和对象存储中的 CSV 数据集实现。
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hrportal/internal/config"
	"hrportal/internal/database"
	"hrportal/internal/storage"
)

var (
	// ErrNotFound 表示按主键找不到记录。
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID 表示插入的主键已存在。
	ErrDuplicateID = errors.New("duplicate id")
)

// Record 是可持久化的记录，RecordKey 返回其主键值。
type Record interface {
	RecordKey() string
}

// ListOptions 控制 List 的过滤、排序与数量。Filter 的键为列名，按值精确匹配。
type ListOptions struct {
	Filter  map[string]string
	OrderBy string
	Desc    bool
	Limit   int
}

// Repository 是单个数据集的 CRUD 接口。
type Repository[T Record] interface {
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, opts ListOptions) ([]T, error)
	Insert(ctx context.Context, rec T) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	IDs(ctx context.Context) ([]string, error)
}

// Repositories 汇总全部 HR 数据集。
type Repositories struct {
	Jobs         Repository[database.JobPosting]
	Applications Repository[database.Application]
	Employees    Repository[database.Employee]
	Leaves       Repository[database.EmployeeLeave]
	SalarySlips  Repository[database.SalarySlip]
}

// NewGormRepositories 以关系数据库作为后端。
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Jobs:         NewGormRepository[database.JobPosting](db, "job_id"),
		Applications: NewGormRepository[database.Application](db, "form_id"),
		Employees:    NewGormRepository[database.Employee](db, "emp_id"),
		Leaves:       NewGormRepository[database.EmployeeLeave](db, "leave_id"),
		SalarySlips:  NewGormRepository[database.SalarySlip](db, "slip_id"),
	}
}

// NewCSVRepositories 以 Bucket 中的 CSV 文件作为后端。
func NewCSVRepositories(objects storage.ObjectStore) *Repositories {
	return &Repositories{
		Jobs:         NewCSVRepository(objects, jobPostingCodec),
		Applications: NewCSVRepository(objects, applicationCodec),
		Employees:    NewCSVRepository(objects, employeeCodec),
		Leaves:       NewCSVRepository(objects, employeeLeaveCodec),
		SalarySlips:  NewCSVRepository(objects, salarySlipCodec),
	}
}

// Open 按 storage.backend 选择实现。postgres 后端时 db 不能为空。
func Open(backend string, db *gorm.DB, objects storage.ObjectStore) (*Repositories, error) {
	switch backend {
	case config.BackendPostgres:
		if db == nil {
			return nil, errors.New("postgres backend requires a database connection")
		}
		return NewGormRepositories(db), nil
	case config.BackendCSV:
		if objects == nil {
			return nil, errors.New("csv backend requires an object store")
		}
		return NewCSVRepositories(objects), nil
	default:
		return nil, errors.New("unknown storage backend " + backend)
	}
}
