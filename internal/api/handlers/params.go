package handlers

import (
	"net/http"
	"strconv"

	"github.com/cloo-solutions/techwiki/internal/query"
)

func filterParams(r *http.Request) query.Params {
	q := r.URL.Query()
	errorCode := q.Get("errorCode")
	if errorCode == "" {
		errorCode = q.Get("error_code")
	}
	return query.Params{
		Status:      q.Get("status"),
		Category:    q.Get("category"),
		Application: q.Get("application"),
		ErrorCode:   errorCode,
		Severity:    q.Get("severity"),
		Tags:        q.Get("tags"),
		Q:           q.Get("q"),
	}
}

func echoQuery(r *http.Request) map[string]string {
	q := r.URL.Query()
	out := make(map[string]string, len(q))
	for k := range q {
		out[k] = q.Get(k)
	}
	return out
}

// intParam returns 0 for absent or malformed values so the caller's default applies.
func intParam(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
