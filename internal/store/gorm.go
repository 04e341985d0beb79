package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormStore implements Store over dynamic table names on a GORM
// connection. It backs the generic store endpoints the same way the
// original deployment's hosted store exposed its tables.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore on the given connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Select reads rows matching the filter, applies ordering and limit, and
// attaches one level of joined records.
func (s *GormStore) Select(ctx context.Context, table string, filter Filter, opts SelectOptions) ([]Record, error) {
	q := s.db.WithContext(ctx).Table(table)
	if len(filter) > 0 {
		q = q.Where(map[string]any(filter))
	}
	if opts.OrderBy != "" {
		dir := "ASC"
		if opts.Descending {
			dir = "DESC"
		}
		q = q.Order(fmt.Sprintf("%s %s", opts.OrderBy, dir))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var rows []map[string]any
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record(row)
	}

	for _, join := range opts.Joins {
		if err := s.attachJoin(ctx, records, join); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// attachJoin fetches the related rows for all records in one query and
// attaches each under the join's alias
func (s *GormStore) attachJoin(ctx context.Context, records []Record, join Join) error {
	keys := make([]any, 0, len(records))
	seen := make(map[any]bool)
	for _, r := range records {
		if k, ok := r[join.LocalKey]; ok && k != nil && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	fk := join.ForeignKey
	if fk == "" {
		fk = "id"
	}

	var related []map[string]any
	err := s.db.WithContext(ctx).Table(join.Table).
		Where(fmt.Sprintf("%s IN ?", fk), keys).
		Find(&related).Error
	if err != nil {
		return err
	}

	byKey := make(map[any]map[string]any, len(related))
	for _, row := range related {
		byKey[row[fk]] = row
	}
	for _, r := range records {
		if rel, ok := byKey[r[join.LocalKey]]; ok {
			r[join.As] = rel
		}
	}
	return nil
}

// Insert creates a row and returns it as stored
func (s *GormStore) Insert(ctx context.Context, table string, record Record) (Record, error) {
	row := map[string]any(record)
	if err := s.db.WithContext(ctx).Table(table).Create(&row).Error; err != nil {
		return nil, err
	}
	return Record(row), nil
}

// Update patches the row with the given primary key
func (s *GormStore) Update(ctx context.Context, table string, id string, patch Record) error {
	res := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(map[string]any(patch))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes all rows matching the filter. An empty filter is
// rejected rather than truncating the table.
func (s *GormStore) Delete(ctx context.Context, table string, filter Filter) error {
	if len(filter) == 0 {
		return fmt.Errorf("delete on %s requires a filter", table)
	}
	return s.db.WithContext(ctx).Table(table).Where(map[string]any(filter)).Delete(nil).Error
}
