package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository 基于 GORM 模型实现 Repository。
type GormRepository[T Record] struct {
	db        *gorm.DB
	keyColumn string
}

var _ Repository[Record] = (*GormRepository[Record])(nil)

// NewGormRepository 创建仓储，keyColumn 为主键列名。
func NewGormRepository[T Record](db *gorm.DB, keyColumn string) *GormRepository[T] {
	return &GormRepository[T]{db: db, keyColumn: keyColumn}
}

func (r *GormRepository[T]) keyEq(id string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: r.keyColumn}, Value: id}
}

func (r *GormRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	err := r.db.WithContext(ctx).Where(r.keyEq(id)).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rec, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return rec, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

func (r *GormRepository[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	var zero T
	q := r.db.WithContext(ctx).Model(&zero)

	// map 遍历无序，按列名排序后拼接，保证生成的 SQL 稳定。
	cols := make([]string, 0, len(opts.Filter))
	for col := range opts.Filter {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: opts.Filter[col]})
	}

	if opts.OrderBy != "" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: opts.OrderBy}, Desc: opts.Desc})
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: r.keyColumn}, Desc: opts.Desc})
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var out []T
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return out, nil
}

func (r *GormRepository[T]) Insert(ctx context.Context, rec T) error {
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, rec.RecordKey())
		}
		return fmt.Errorf("insert %s: %w", rec.RecordKey(), err)
	}
	return nil
}

func (r *GormRepository[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	var zero T
	res := r.db.WithContext(ctx).Model(&zero).Where(r.keyEq(id)).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (r *GormRepository[T]) Delete(ctx context.Context, id string) error {
	var zero T
	res := r.db.WithContext(ctx).Where(r.keyEq(id)).Delete(&zero)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (r *GormRepository[T]) IDs(ctx context.Context) ([]string, error) {
	var zero T
	var ids []string
	if err := r.db.WithContext(ctx).Model(&zero).Pluck(r.keyColumn, &ids).Error; err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	return ids, nil
}
