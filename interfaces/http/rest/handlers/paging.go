package handlers

import (
	"net/http"
	"strconv"

	"workhub-backend/internal/repository"
)

// paginationFromQuery reads limit, cursor and order from query params.
func paginationFromQuery(r *http.Request) repository.Pagination {
	q := r.URL.Query()
	var p repository.Pagination
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			p.Limit = int32(n)
		}
	}
	p.Cursor = q.Get("cursor")
	p.Backward = q.Get("order") == "desc"
	return p
}

type pageResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

func toPageResponse[T any](page repository.Page[T]) pageResponse[T] {
	return pageResponse[T]{Items: page.Items, NextCursor: page.NextCursor}
}
