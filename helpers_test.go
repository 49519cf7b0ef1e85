package semaphore

import (
	"strings"
	"testing"
)

func TestProjectPath(t *testing.T) {
	tests := []struct {
		id   int
		segs []any
		want string
	}{
		{1, nil, "/project/1"},
		{3, []any{"templates"}, "/project/3/templates"},
		{3, []any{"tasks", 42, "output"}, "/project/3/tasks/42/output"},
		{3, []any{"views", "a b"}, "/project/3/views/a%20b"},
	}

	for _, tt := range tests {
		if got := projectPath(tt.id, tt.segs...); got != tt.want {
			t.Errorf("projectPath(%d, %v) = %q, want %q", tt.id, tt.segs, got, tt.want)
		}
	}
}

func TestWithQuery(t *testing.T) {
	if got := withQuery("/keys", nil); got != "/keys" {
		t.Errorf("no params: got %q", got)
	}
	if got := withQuery("/keys", map[string]string{"sort": ""}); got != "/keys" {
		t.Errorf("empty value: got %q", got)
	}
	got := withQuery("/users", map[string]string{"sort": "name", "order": "desc"})
	if got != "/users?order=desc&sort=name" {
		t.Errorf("got %q", got)
	}
	if got := withQuery("/keys", map[string]string{"Key type": "ssh"}); got != "/keys?Key+type=ssh" {
		t.Errorf("escaped key: got %q", got)
	}
}

func TestIsEmptyBody(t *testing.T) {
	for _, body := range []string{"", "  \n", `""`, "null"} {
		if !isEmptyBody([]byte(body)) {
			t.Errorf("isEmptyBody(%q) = false", body)
		}
	}
	for _, body := range []string{"{}", "[]", `{"id":1}`} {
		if isEmptyBody([]byte(body)) {
			t.Errorf("isEmptyBody(%q) = true", body)
		}
	}
}

func TestUnmarshalList(t *testing.T) {
	items, err := unmarshalList[Project]([]byte("null"), "project list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("null should decode to an empty slice, got %#v", items)
	}

	_, err = unmarshalList[Project]([]byte(`{"id":1}`), "project list")
	if !IsDecodeError(err) {
		t.Errorf("object should fail as DecodeError, got %v", err)
	}
}

func TestUnmarshalResponse(t *testing.T) {
	p, err := unmarshalResponse[Project]([]byte(`{"id":7,"name":"infra"}`), "project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 7 || p.Name != "infra" {
		t.Errorf("got %+v", p)
	}

	_, err = unmarshalResponse[Project]([]byte("<html>"), "project")
	if !IsDecodeError(err) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !strings.Contains(err.Error(), "<html>") {
		t.Errorf("error should include the body preview: %v", err)
	}
}

func TestTruncatePreview(t *testing.T) {
	if got := truncatePreview([]byte("short")); got != "short" {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("x", 250)
	got := truncatePreview([]byte(long))
	if len(got) != 203 || !strings.HasSuffix(got, "...") {
		t.Errorf("got len %d: %q", len(got), got)
	}
}

func TestFindByName(t *testing.T) {
	keys := []Key{{ID: 1, Name: "deploy"}, {ID: 7, Name: "vault"}, {ID: 3, Name: "vault"}}
	name := func(k Key) string { return k.Name }
	id := func(k Key) int { return k.ID }

	k, ok := findByName(keys, "deploy", name, id)
	if !ok || k.ID != 1 {
		t.Errorf("got %+v, %v", k, ok)
	}
	k, ok = findByName(keys, "vault", name, id)
	if !ok || k.ID != 7 {
		t.Errorf("duplicate names should pick the highest ID, got %+v, %v", k, ok)
	}
	if _, ok := findByName(keys, "missing", name, id); ok {
		t.Error("missing name should not be found")
	}
}
