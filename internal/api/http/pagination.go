package http

import (
	"net/http"
	"strconv"
	"strings"
)

// Pagination is the page metadata returned beside list data. From, To and the
// page URLs are null when they do not apply.
type Pagination struct {
	Total       int     `json:"total"`
	PerPage     int     `json:"per_page"`
	CurrentPage int     `json:"current_page"`
	LastPage    int     `json:"last_page"`
	From        *int    `json:"from"`
	To          *int    `json:"to"`
	NextPageURL *string `json:"next_page_url"`
	PrevPageURL *string `json:"prev_page_url"`
}

// newPagination describes page of a listing that matched total rows and returned count of them.
func newPagination(r *http.Request, baseURL string, total, page, perPage, count int) Pagination {
	last := 1
	if perPage > 0 && total > 0 {
		last = (total + perPage - 1) / perPage
	}
	p := Pagination{Total: total, PerPage: perPage, CurrentPage: page, LastPage: last}
	if count > 0 {
		from := (page-1)*perPage + 1
		to := from + count - 1
		p.From, p.To = &from, &to
	}
	if page < last {
		u := pageURL(r, baseURL, page+1)
		p.NextPageURL = &u
	}
	if page > 1 {
		u := pageURL(r, baseURL, page-1)
		p.PrevPageURL = &u
	}
	return p
}

// pageURL keeps the request's other query parameters and swaps the page.
func pageURL(r *http.Request, baseURL string, page int) string {
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	return origin(r, baseURL) + r.URL.Path + "?" + q.Encode()
}

// origin is baseURL without a trailing slash, or the request's scheme and host
// when no public URL is configured.
func origin(r *http.Request, baseURL string) string {
	if baseURL != "" {
		return strings.TrimSuffix(baseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// absoluteURL resolves a root-relative link against origin.
func absoluteURL(r *http.Request, baseURL, u string) string {
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return origin(r, baseURL) + u
	}
	return u
}

// pageParam reads ?page, falling back to 1 for missing or invalid values.
func pageParam(r *http.Request) int {
	if p := parseIntDefault(r.URL.Query().Get("page"), 1); p > 0 {
		return p
	}
	return 1
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
