package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hrportal/internal/database"
	"hrportal/internal/ids"
	"hrportal/internal/storage"
)

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) PutObject(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeObjects) ReadObject(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
	}
	return b, nil
}

func (f *fakeObjects) OpenObject(ctx context.Context, key string) (io.ReadCloser, storage.ObjectMeta, error) {
	b, err := f.ReadObject(ctx, key)
	if err != nil {
		return nil, storage.ObjectMeta{}, err
	}
	return io.NopCloser(bytes.NewReader(b)), storage.ObjectMeta{Key: key, Size: int64(len(b))}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func job(id, date, desc string) database.JobPosting {
	d, _ := database.ParseDate(date)
	return database.JobPosting{JobID: id, JobDescription: desc, JobDate: d}
}

// 两种后端共享同一组行为测试。
func backends(t *testing.T) map[string]*Repositories {
	return map[string]*Repositories{
		"gorm": NewGormRepositories(newTestDB(t)),
		"csv":  NewCSVRepositories(newFakeObjects()),
	}
}

func TestRepository_InsertGetAndDuplicate(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repos.Jobs.Insert(ctx, job("JD001", "2024-05-01", "Job Title: Go Dev")); err != nil {
				t.Fatalf("insert: %v", err)
			}
			got, err := repos.Jobs.Get(ctx, "JD001")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.JobDescription != "Job Title: Go Dev" || database.FormatDate(got.JobDate) != "2024-05-01" {
				t.Fatalf("unexpected record: %+v", got)
			}

			err = repos.Jobs.Insert(ctx, job("JD001", "2024-05-02", "again"))
			if !errors.Is(err, ErrDuplicateID) {
				t.Fatalf("expected ErrDuplicateID, got %v", err)
			}

			if _, err := repos.Jobs.Get(ctx, "JD404"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestRepository_ListFilterOrderLimit(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			apps := []database.Application{
				{FormID: "FM001", JobID: "JD001", Name: "a"},
				{FormID: "FM002", JobID: "JD002", Name: "b"},
				{FormID: "FM003", JobID: "JD001", Name: "c"},
			}
			dates := []string{"2024-01-01", "2024-01-05", "2024-01-03"}
			for i, a := range apps {
				a.FormDate, _ = database.ParseDate(dates[i])
				if err := repos.Applications.Insert(ctx, a); err != nil {
					t.Fatalf("insert %s: %v", a.FormID, err)
				}
			}

			got, err := repos.Applications.List(ctx, ListOptions{
				Filter:  map[string]string{"job_id": "JD001"},
				OrderBy: "form_date",
				Desc:    true,
			})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 2 || got[0].FormID != "FM003" || got[1].FormID != "FM001" {
				t.Fatalf("unexpected order: %+v", got)
			}

			limited, err := repos.Applications.List(ctx, ListOptions{OrderBy: "form_date", Desc: true, Limit: 1})
			if err != nil {
				t.Fatalf("list limited: %v", err)
			}
			if len(limited) != 1 || limited[0].FormID != "FM002" {
				t.Fatalf("unexpected limited result: %+v", limited)
			}
		})
	}
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			slip := database.SalarySlip{
				SlipID:      "SP001",
				EmpID:       "E1",
				GrossSalary: decimal.RequireFromString("1000.00"),
				Tax:         decimal.RequireFromString("50.00"),
				PF:          decimal.RequireFromString("30.00"),
				NetSalary:   decimal.RequireFromString("920.00"),
				SlipDate:    database.NewDate(time.Date(2024, 6, 30, 15, 0, 0, 0, time.Local)),
				TaxPercent:  decimal.NewFromInt(5),
				PFPercent:   decimal.NewFromInt(3),
			}
			if err := repos.SalarySlips.Insert(ctx, slip); err != nil {
				t.Fatalf("insert: %v", err)
			}
			if err := repos.SalarySlips.Update(ctx, "SP001", map[string]any{"pdf_key": "salary-slips/E1_2024-06-30.pdf"}); err != nil {
				t.Fatalf("update: %v", err)
			}
			got, err := repos.SalarySlips.Get(ctx, "SP001")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.PdfKey != "salary-slips/E1_2024-06-30.pdf" {
				t.Fatalf("pdf key = %q", got.PdfKey)
			}
			if !got.NetSalary.Equal(decimal.RequireFromString("920")) {
				t.Fatalf("net = %s", got.NetSalary)
			}
			if !got.TaxPercent.Equal(decimal.NewFromInt(5)) || !got.PFPercent.Equal(decimal.NewFromInt(3)) {
				t.Fatalf("rates = %s / %s", got.TaxPercent, got.PFPercent)
			}

			if err := repos.SalarySlips.Update(ctx, "SP404", map[string]any{"pdf_key": "x"}); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound on update, got %v", err)
			}
			if err := repos.SalarySlips.Delete(ctx, "SP001"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := repos.SalarySlips.Delete(ctx, "SP001"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestCSVRepository_MissingDatasetIsEmpty(t *testing.T) {
	repos := NewCSVRepositories(newFakeObjects())
	got, err := repos.Employees.IDs(context.Background())
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no ids, got %v", got)
	}
}

func TestCSVRepository_ReadsForeignHeaderOrder(t *testing.T) {
	objects := newFakeObjects()
	objects.objects[DatasetLeaves] = []byte("\ufeffemp_id,avaliable_leaves,leave_id\nE1,12,L1\nE1,3,L2\n")
	repos := NewCSVRepositories(objects)

	got, err := repos.Leaves.List(context.Background(), ListOptions{Filter: map[string]string{"emp_id": "E1"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].LeaveID != "L1" || got[0].AvaliableLeaves != 12 || got[1].AvaliableLeaves != 3 {
		t.Fatalf("unexpected leaves: %+v", got)
	}
}

func TestCSVRepository_WritesCanonicalHeader(t *testing.T) {
	objects := newFakeObjects()
	repos := NewCSVRepositories(objects)
	if err := repos.Jobs.Insert(context.Background(), job("JD001", "2024-05-01", "Summary:\nline, with comma")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	raw := string(objects.objects[DatasetJobs])
	if !strings.HasPrefix(raw, "job_id,job_description,job_date\n") {
		t.Fatalf("unexpected header: %q", raw)
	}
	if !strings.Contains(raw, `"Summary:`+"\n"+`line, with comma"`) {
		t.Fatalf("description not quoted: %q", raw)
	}
}

type countingLocker struct {
	names    []string
	released int
}

func (l *countingLocker) Lock(_ context.Context, name string) (func(), error) {
	l.names = append(l.names, name)
	return func() { l.released++ }, nil
}

func TestSequencer_AllocatesUnderLock(t *testing.T) {
	ctx := context.Background()
	repos := NewCSVRepositories(newFakeObjects())
	locker := &countingLocker{}
	seq := NewSequencer(locker)

	for _, want := range []string{"JD001", "JD002"} {
		id, err := seq.WithNextID(ctx, ids.PrefixJob, repos.Jobs, func(ctx context.Context, id string) error {
			return repos.Jobs.Insert(ctx, job(id, "2024-05-01", "x"))
		})
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
		if id != want {
			t.Fatalf("id = %q want %q", id, want)
		}
	}
	if len(locker.names) != 2 || locker.names[0] != "ids:JD" || locker.released != 2 {
		t.Fatalf("unexpected lock usage: %+v", locker)
	}
}

func TestSequencer_RetriesOnceOnDuplicate(t *testing.T) {
	ctx := context.Background()
	repos := NewCSVRepositories(newFakeObjects())
	seq := NewSequencer(nil)

	calls := 0
	id, err := seq.WithNextID(ctx, ids.PrefixApplication, repos.Applications, func(ctx context.Context, id string) error {
		calls++
		if calls == 1 {
			// 模拟另一个写入者抢先写入了同一编号。
			_ = repos.Applications.Insert(ctx, database.Application{FormID: id})
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		return repos.Applications.Insert(ctx, database.Application{FormID: id})
	})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if id != "FM002" || calls != 2 {
		t.Fatalf("id=%q calls=%d", id, calls)
	}
}

func TestSequencer_MalformedExistingID(t *testing.T) {
	objects := newFakeObjects()
	objects.objects[DatasetSalarySlips] = []byte("slip_id,emp_id\nSPX1,E1\n")
	repos := NewCSVRepositories(objects)

	_, err := NewSequencer(nil).WithNextID(context.Background(), ids.PrefixSalarySlip, repos.SalarySlips, func(context.Context, string) error {
		t.Fatal("fn must not run when allocation fails")
		return nil
	})
	if !errors.Is(err, ids.ErrMalformedID) {
		t.Fatalf("expected ErrMalformedID, got %v", err)
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	if _, err := Open("csv", nil, newFakeObjects()); err != nil {
		t.Fatalf("csv: %v", err)
	}
	if _, err := Open("postgres", nil, nil); err == nil {
		t.Fatal("expected error without db")
	}
	if _, err := Open("excel", nil, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestSalarySlipCodec_DecodesRowsWithoutRates(t *testing.T) {
	slip, err := salarySlipCodec.Decode(map[string]string{
		"slip_id": "SP001", "emp_id": "E1",
		"gross_salary": "1000.00", "tax": "50.00", "pf": "30.00", "net_salary": "920.00",
		"slip_date": "2024-06-30", "pdf_key": "",
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slip.TaxPercent.IsZero() || !slip.PFPercent.IsZero() || !slip.NetSalary.Equal(decimal.NewFromInt(920)) {
		t.Fatalf("unexpected slip: %+v", slip)
	}
}
