package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/ventepos/i18n"
)

// localize translates an error code using the request's Accept-Language.
func localize(r *http.Request, code string) string {
	lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	return i18n.T(lang, code)
}

// idParam reads a positive integer id from the query string or form.
func idParam(r *http.Request) int {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		idStr = r.FormValue("id")
	}
	id, _ := strconv.Atoi(idStr)
	return id
}

// pagination reads limit/page query parameters with the listing defaults.
func pagination(r *http.Request) (pageSize, offset int) {
	pageSize = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			pageSize = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * pageSize
		}
	}
	return pageSize, offset
}

// pageParam reads the 1-based page number.
func pageParam(r *http.Request) int {
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			return n
		}
	}
	return 1
}

// dateRange reads from/to query parameters (YYYY-MM-DD or RFC 3339).
// Defaults to the last thirty days ending now, with "to" pushed to the end
// of its day when given date-only.
func dateRange(r *http.Request) (from, to time.Time) {
	now := time.Now()
	to = now
	from = now.AddDate(0, 0, -30)
	if v := r.URL.Query().Get("from"); v != "" {
		if t, ok := parseDate(v); ok {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, ok := parseDate(v); ok {
			if len(strings.TrimSpace(v)) == len("2006-01-02") {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			to = t
		}
	}
	return from, to
}

func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true
	}
	return time.Time{}, false
}
