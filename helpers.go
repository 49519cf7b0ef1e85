package semaphore

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	errInvalidJSON = errors.New("invalid JSON document")
	errNilRequest  = errors.New("request body cannot be nil")
)

// unmarshalResponse unmarshals JSON data with consistent error formatting.
// This helper reduces boilerplate across all API response parsing.
func unmarshalResponse[T any](data []byte, resourceName string) (*T, error) {
	var resp T
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &DecodeError{Resource: resourceName, Body: truncatePreview(data), Err: err}
	}
	return &resp, nil
}

// unmarshalList unmarshals a JSON array. A JSON null decodes to an empty slice.
func unmarshalList[T any](data []byte, resourceName string) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &DecodeError{Resource: resourceName, Body: truncatePreview(data), Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// isEmptyBody reports whether a response carried no JSON document.
func isEmptyBody(data []byte) bool {
	s := strings.TrimSpace(string(data))
	return s == "" || s == `""` || s == "null"
}

// truncatePreview returns a truncated string for error messages.
func truncatePreview(data []byte) string {
	s := string(data)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// projectPath builds "/project/{id}" followed by the given segments.
func projectPath(projectID int, segments ...any) string {
	var b strings.Builder
	b.WriteString("/project/")
	b.WriteString(strconv.Itoa(projectID))
	for _, seg := range segments {
		b.WriteByte('/')
		switch v := seg.(type) {
		case int:
			b.WriteString(strconv.Itoa(v))
		case string:
			b.WriteString(url.PathEscape(v))
		default:
			b.WriteString(url.PathEscape(fmt.Sprint(v)))
		}
	}
	return b.String()
}

// withQuery appends non-empty query parameters to path.
func withQuery(path string, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// findByName returns the matching item with the highest ID. Names are not
// unique, and the most recently created record has the highest ID.
func findByName[T any](items []T, name string, nameOf func(T) string, idOf func(T) int) (*T, bool) {
	var found *T
	for i := range items {
		if nameOf(items[i]) != name {
			continue
		}
		if found == nil || idOf(items[i]) > idOf(*found) {
			found = &items[i]
		}
	}
	return found, found != nil
}

// SortOrder is the direction of a sorted list.
type SortOrder string

// Sort orders accepted by list endpoints.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)
