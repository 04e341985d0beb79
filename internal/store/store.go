// Package store defines the remote store contract consumed by the data
// sync layer: request/response calls against named collections returning
// structured records. The production implementation is backed by the
// hosted relational database; tests use in-memory fakes.
package store

import "context"

// Record is one row of a collection, keyed by column name
type Record map[string]any

// ID returns the record's string primary key, if present
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Filter restricts a query to rows whose columns equal the given values
type Filter map[string]any

// Join attaches one related record per row by foreign key. Joins are
// shallow: one level only.
type Join struct {
	Table      string // Related collection
	LocalKey   string // Column on the selected rows holding the FK
	ForeignKey string // Column on the related collection, usually "id"
	As         string // Key the related record is attached under
}

// SelectOptions shape a read beyond the filter
type SelectOptions struct {
	OrderBy    string
	Descending bool
	Limit      int
	Joins      []Join
}

// Store is the narrow request/response interface to the remote store
type Store interface {
	Select(ctx context.Context, table string, filter Filter, opts SelectOptions) ([]Record, error)
	Insert(ctx context.Context, table string, record Record) (Record, error)
	Update(ctx context.Context, table string, id string, patch Record) error
	Delete(ctx context.Context, table string, filter Filter) error
}
