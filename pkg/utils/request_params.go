package utils

import (
	"net/http"
	"strconv"
	"strings"
)

// GetPaginationParams reads ?page= and ?limit= with sane bounds.
func GetPaginationParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return page, limit
}

var sortableColumns = map[string]string{
	"date":   "txn_date",
	"amount": "amount_cents",
	"id":     "id",
}

// AddSorting appends an ORDER BY from ?sortBy= and ?sortOrder=, mapped
// through a whitelist so user input never reaches the SQL text.
func AddSorting(r *http.Request, query string) string {
	col, ok := sortableColumns[r.URL.Query().Get("sortBy")]
	if !ok {
		return query
	}
	order := "ASC"
	if strings.EqualFold(r.URL.Query().Get("sortOrder"), "desc") {
		order = "DESC"
	}
	return query + " ORDER BY " + col + " " + order
}
