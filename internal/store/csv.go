package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"

	"hrportal/internal/storage"
)

// Codec 描述一个 CSV 数据集：对象名、列顺序以及记录与行之间的转换。
type Codec[T Record] struct {
	Dataset string
	Key     string
	Columns []string
	Encode  func(T) []string
	Decode  func(row map[string]string) (T, error)
}

// CSVRepository 把整个数据集保存为 Bucket 中的一个 CSV 对象，每次写入都整体重写。
// 进程内以互斥锁串行化读改写；跨进程的串行化由 Sequencer 的分布式锁负责。
type CSVRepository[T Record] struct {
	objects storage.ObjectStore
	codec   Codec[T]
	mu      sync.Mutex
}

// NewCSVRepository 创建基于对象存储的 CSV 仓储。
func NewCSVRepository[T Record](objects storage.ObjectStore, codec Codec[T]) *CSVRepository[T] {
	return &CSVRepository[T]{objects: objects, codec: codec}
}

func (r *CSVRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	rows, err := r.load(ctx)
	if err != nil {
		return zero, err
	}
	for _, rec := range rows {
		if rec.RecordKey() == id {
			return rec, nil
		}
	}
	return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (r *CSVRepository[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	rows, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for col := range opts.Filter {
		if !slices.Contains(r.codec.Columns, col) {
			return nil, fmt.Errorf("list %s: unknown column %q", r.codec.Dataset, col)
		}
	}
	out := make([]T, 0, len(rows))
	for _, rec := range rows {
		if r.matches(rec, opts.Filter) {
			out = append(out, rec)
		}
	}

	if opts.OrderBy != "" {
		idx := slices.Index(r.codec.Columns, opts.OrderBy)
		if idx < 0 {
			return nil, fmt.Errorf("list %s: unknown column %q", r.codec.Dataset, opts.OrderBy)
		}
		if opts.Desc {
			// 先反转，相同排序值时后写入的记录排在前面。
			slices.Reverse(out)
		}
		sort.SliceStable(out, func(i, j int) bool {
			a, b := r.codec.Encode(out[i])[idx], r.codec.Encode(out[j])[idx]
			if opts.Desc {
				return a > b
			}
			return a < b
		})
	} else if opts.Desc {
		slices.Reverse(out)
	}

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *CSVRepository[T]) matches(rec T, filter map[string]string) bool {
	if len(filter) == 0 {
		return true
	}
	row := r.codec.Encode(rec)
	for col, want := range filter {
		if row[slices.Index(r.codec.Columns, col)] != want {
			return false
		}
	}
	return true
}

func (r *CSVRepository[T]) Insert(ctx context.Context, rec T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.load(ctx)
	if err != nil {
		return err
	}
	key := rec.RecordKey()
	for _, existing := range rows {
		if existing.RecordKey() == key {
			return fmt.Errorf("%w: %s", ErrDuplicateID, key)
		}
	}
	return r.save(ctx, append(rows, rec))
}

func (r *CSVRepository[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i, rec := range rows {
		if rec.RecordKey() != id {
			continue
		}
		values := r.rowMap(r.codec.Encode(rec))
		for col, v := range fields {
			if _, ok := values[col]; !ok {
				return fmt.Errorf("update %s: unknown column %q", r.codec.Dataset, col)
			}
			if col == r.codec.Key {
				return fmt.Errorf("update %s: key column %q is immutable", r.codec.Dataset, col)
			}
			values[col] = csvValue(v)
		}
		updated, err := r.codec.Decode(values)
		if err != nil {
			return fmt.Errorf("update %s: %w", id, err)
		}
		rows[i] = updated
		return r.save(ctx, rows)
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (r *CSVRepository[T]) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(rows, func(rec T) bool { return rec.RecordKey() == id })
	if len(kept) == len(rows) {
		// DeleteFunc 原地修改，长度不变说明没有删除任何记录。
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.save(ctx, kept)
}

func (r *CSVRepository[T]) IDs(ctx context.Context) ([]string, error) {
	rows, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, rec := range rows {
		ids = append(ids, rec.RecordKey())
	}
	return ids, nil
}

func (r *CSVRepository[T]) rowMap(row []string) map[string]string {
	m := make(map[string]string, len(r.codec.Columns))
	for i, col := range r.codec.Columns {
		if i < len(row) {
			m[col] = row[i]
		} else {
			m[col] = ""
		}
	}
	return m
}

// load 读取整个数据集；对象不存在视为空数据集。
// 按文件自身的表头取列，兼容列顺序不同或缺列的旧文件。
func (r *CSVRepository[T]) load(ctx context.Context) ([]T, error) {
	data, err := r.objects.ReadObject(ctx, r.codec.Dataset)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dataset %s: %w", r.codec.Dataset, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse dataset %s header: %w", r.codec.Dataset, err)
	}
	for i := range header {
		header[i] = trimBOM(header[i])
	}

	var out []T
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse dataset %s: %w", r.codec.Dataset, err)
		}
		values := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				values[col] = record[i]
			}
		}
		rec, err := r.codec.Decode(values)
		if err != nil {
			return nil, fmt.Errorf("decode dataset %s line %d: %w", r.codec.Dataset, line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *CSVRepository[T]) save(ctx context.Context, rows []T) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(r.codec.Columns); err != nil {
		return fmt.Errorf("encode dataset %s: %w", r.codec.Dataset, err)
	}
	for _, rec := range rows {
		if err := w.Write(r.codec.Encode(rec)); err != nil {
			return fmt.Errorf("encode dataset %s: %w", r.codec.Dataset, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode dataset %s: %w", r.codec.Dataset, err)
	}
	if err := r.objects.PutObject(ctx, r.codec.Dataset, buf.Bytes(), "text/csv"); err != nil {
		return fmt.Errorf("write dataset %s: %w", r.codec.Dataset, err)
	}
	return nil
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
