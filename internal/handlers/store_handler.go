package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/store"
)

// storeTables is the set of collections the generic store endpoints
// expose. Table and column names reach SQL, so nothing outside this
// list is queryable.
var storeTables = map[string]bool{
	"profiles":              true,
	"student_profiles":      true,
	"organization_profiles": true,
	"posts":                 true,
	"comments":              true,
	"post_likes":            true,
	"jobs":                  true,
	"applications":          true,
	"connections":           true,
	"messages":              true,
	"notifications":         true,
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// StoreHandler exposes the generic table-level store contract the sync
// client speaks: filtered selects with shallow joins, inserts, patches
// and filtered deletes, with change events published to the hub.
type StoreHandler struct {
	store store.Store
	hub   *realtime.Hub
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(s store.Store, hub *realtime.Hub) *StoreHandler {
	return &StoreHandler{store: s, hub: hub}
}

// RegisterStoreRoutes registers the generic store routes
func (h *StoreHandler) RegisterStoreRoutes(g *echo.Group) {
	g.GET("/store/:table", h.Select)
	g.POST("/store/:table", h.Insert)
	g.PATCH("/store/:table/:id", h.Update)
	g.DELETE("/store/:table", h.Delete)
}

func storeTable(c echo.Context) (string, error) {
	table := c.Param("table")
	if !storeTables[table] {
		return "", echo.NewHTTPError(http.StatusNotFound, "Unknown collection")
	}
	return table, nil
}

// parseFilter reads col=eq.value query params into a filter. Reserved
// params (order, limit, join) are skipped.
func parseFilter(c echo.Context) (store.Filter, error) {
	filter := store.Filter{}
	for col, vals := range c.QueryParams() {
		if col == "order" || col == "limit" || col == "join" {
			continue
		}
		if !identPattern.MatchString(col) {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid filter column: "+col)
		}
		if len(vals) == 0 {
			continue
		}
		val, ok := strings.CutPrefix(vals[0], "eq.")
		if !ok {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Unsupported filter operator on "+col)
		}
		filter[col] = val
	}
	return filter, nil
}

// Select handles GET /store/:table
func (h *StoreHandler) Select(c echo.Context) error {
	table, err := storeTable(c)
	if err != nil {
		return err
	}
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	var opts store.SelectOptions
	if order := c.QueryParam("order"); order != "" {
		col, dir, _ := strings.Cut(order, ".")
		if !identPattern.MatchString(col) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid order column")
		}
		opts.OrderBy = col
		opts.Descending = dir == "desc"
	}
	if limit := c.QueryParam("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		opts.Limit = n
	}
	for _, raw := range c.QueryParams()["join"] {
		parts := strings.Split(raw, ":")
		if len(parts) != 4 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid join: "+raw)
		}
		join := store.Join{Table: parts[0], LocalKey: parts[1], ForeignKey: parts[2], As: parts[3]}
		if !storeTables[join.Table] {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown join collection: "+join.Table)
		}
		if !identPattern.MatchString(join.LocalKey) || !identPattern.MatchString(join.ForeignKey) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid join key")
		}
		opts.Joins = append(opts.Joins, join)
	}

	records, err := h.store.Select(c.Request().Context(), table, filter, opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch records")
	}
	if records == nil {
		records = []store.Record{}
	}
	return c.JSON(http.StatusOK, records)
}

// Insert handles POST /store/:table
func (h *StoreHandler) Insert(c echo.Context) error {
	table, err := storeTable(c)
	if err != nil {
		return err
	}

	var record store.Record
	if err := c.Bind(&record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	for col := range record {
		if !identPattern.MatchString(col) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid column: "+col)
		}
	}

	created, err := h.store.Insert(c.Request().Context(), table, record)
	if err != nil {
		if isDuplicateKey(err) {
			return echo.NewHTTPError(http.StatusConflict, "Record already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create record")
	}

	h.hub.Publish(table, realtime.EventInsert, created)
	return c.JSON(http.StatusCreated, created)
}

// Update handles PATCH /store/:table/:id
func (h *StoreHandler) Update(c echo.Context) error {
	table, err := storeTable(c)
	if err != nil {
		return err
	}
	id := c.Param("id")

	var patch store.Record
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	for col := range patch {
		if !identPattern.MatchString(col) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid column: "+col)
		}
	}

	if err := h.store.Update(c.Request().Context(), table, id, patch); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update record")
	}

	patch["id"] = id
	h.hub.Publish(table, realtime.EventUpdate, patch)
	return c.JSON(http.StatusOK, map[string]string{"message": "Record updated"})
}

// Delete handles DELETE /store/:table
func (h *StoreHandler) Delete(c echo.Context) error {
	table, err := storeTable(c)
	if err != nil {
		return err
	}
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	if len(filter) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Delete requires a filter")
	}

	if err := h.store.Delete(c.Request().Context(), table, filter); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete records")
	}

	h.hub.Publish(table, realtime.EventDelete, map[string]any(filter))
	return c.JSON(http.StatusOK, map[string]string{"message": "Records deleted"})
}
