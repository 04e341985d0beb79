// Package client binds the data sync contracts to a remote deployment:
// a REST adapter for the store and a websocket subscriber for the
// realtime channel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/unilinkng/backend/internal/store"
)

// DefaultRequestTimeout bounds every store call; the UI stays interactive
// and surfaces a retry rather than hanging.
const DefaultRequestTimeout = 15 * time.Second

// RESTStore implements store.Store against the server's generic store
// endpoints, the same table-level contract the original client spoke to
// its hosted store.
type RESTStore struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewRESTStore creates a store client. baseURL points at the API root,
// e.g. "https://api.unilink.ng/api/v1"; token is the caller's ID token.
func NewRESTStore(baseURL, token string) *RESTStore {
	return &RESTStore{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: DefaultRequestTimeout},
	}
}

// Select reads records matching the filter
func (s *RESTStore) Select(ctx context.Context, table string, filter store.Filter, opts store.SelectOptions) ([]store.Record, error) {
	q := url.Values{}
	for col, val := range filter {
		q.Set(col, "eq."+fmt.Sprint(val))
	}
	if opts.OrderBy != "" {
		dir := "asc"
		if opts.Descending {
			dir = "desc"
		}
		q.Set("order", opts.OrderBy+"."+dir)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	for _, join := range opts.Joins {
		fk := join.ForeignKey
		if fk == "" {
			fk = "id"
		}
		q.Add("join", fmt.Sprintf("%s:%s:%s:%s", join.Table, join.LocalKey, fk, join.As))
	}

	var records []store.Record
	err := s.do(ctx, http.MethodGet, "/store/"+table+"?"+q.Encode(), nil, &records)
	return records, err
}

// Insert creates a record and returns it as stored
func (s *RESTStore) Insert(ctx context.Context, table string, record store.Record) (store.Record, error) {
	var created store.Record
	if err := s.do(ctx, http.MethodPost, "/store/"+table, record, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// Update patches the record with the given id
func (s *RESTStore) Update(ctx context.Context, table string, id string, patch store.Record) error {
	return s.do(ctx, http.MethodPatch, "/store/"+table+"/"+url.PathEscape(id), patch, nil)
}

// Delete removes records matching the filter
func (s *RESTStore) Delete(ctx context.Context, table string, filter store.Filter) error {
	q := url.Values{}
	for col, val := range filter {
		q.Set(col, "eq."+fmt.Sprint(val))
	}
	return s.do(ctx, http.MethodDelete, "/store/"+table+"?"+q.Encode(), nil, nil)
}

func (s *RESTStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StoreError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// StoreError is a non-2xx response from the store API
type StoreError struct {
	StatusCode int
	Body       string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsConflict reports whether the error is a uniqueness conflict
// (duplicate application, duplicate like, duplicate connection)
func IsConflict(err error) bool {
	se, ok := err.(*StoreError)
	return ok && se.StatusCode == http.StatusConflict
}
