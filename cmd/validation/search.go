package validation

import (
	"net/url"
	"strconv"
	"strings"
)

// SearchParams are the normalized pagination and ordering parameters for
// list/search endpoints. SortBy and SortOrder are interpolated into the
// ORDER BY clause, so both are forced onto an allow-list here: anything
// outside it silently falls back to the entity's default instead of
// erroring.
type SearchParams struct {
	Query     string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// ParseSearchParams reads query/limit/offset/sort_by/sort_order from the
// request query. allowedSort is the entity's permitted sort columns;
// defaultSort must be a member of it.
func ParseSearchParams(q url.Values, allowedSort []string, defaultSort, defaultOrder string, defaultLimit int) SearchParams {
	params := SearchParams{
		Query:     strings.TrimSpace(q.Get("query")),
		Limit:     defaultLimit,
		Offset:    0,
		SortBy:    defaultSort,
		SortOrder: normalizeOrder(defaultOrder, "DESC"),
	}

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset >= 0 {
		params.Offset = offset
	}

	sortBy := q.Get("sort_by")
	for _, col := range allowedSort {
		if sortBy == col {
			params.SortBy = col
			break
		}
	}

	if order := q.Get("sort_order"); order != "" {
		params.SortOrder = normalizeOrder(order, params.SortOrder)
	}

	return params
}

// OrderClause renders the validated sort column and direction. Safe to
// interpolate because both components came off the allow-list.
func (p SearchParams) OrderClause() string {
	return p.SortBy + " " + p.SortOrder
}

// LikePattern returns the case-insensitive substring pattern for the
// free-text query, or "" when the query is blank and the filter clause
// should be omitted entirely.
func (p SearchParams) LikePattern() string {
	if p.Query == "" {
		return ""
	}
	return "%" + strings.ToLower(p.Query) + "%"
}

func normalizeOrder(order, fallback string) string {
	switch strings.ToUpper(order) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	default:
		return fallback
	}
}
