package semaphore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// BenchmarkJSONUnmarshalTemplateList benchmarks decoding a template list with last tasks.
func BenchmarkJSONUnmarshalTemplateList(b *testing.B) {
	listJSON := []byte(`[
		{"id":1,"name":"deploy","playbook":"deploy.yml","repository_id":2,"inventory_id":2,"environment_id":3,
		 "survey_vars":[{"name":"version","title":"Version"}],"last_task":{"id":40,"status":"success"}},
		{"id":2,"name":"build","type":"build","playbook":"build.yml","last_task":null},
		{"id":3,"name":"rollback","playbook":"rollback.yml","last_task":{"id":12,"status":"error"}}
	]`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := unmarshalList[Template](listJSON, "template list"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkJSONUnmarshalTaskOutput benchmarks decoding a long task log.
func BenchmarkJSONUnmarshalTaskOutput(b *testing.B) {
	lines := make([]TaskOutput, 500)
	for i := range lines {
		lines[i] = TaskOutput{TaskID: 1, Output: "ok: [web1] => (item=nginx)"}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := unmarshalList[TaskOutput](data, "task output"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkProjectPath benchmarks URL path construction.
func BenchmarkProjectPath(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = projectPath(12, "tasks", 3456, "output")
	}
}

// BenchmarkClient_ListProjects benchmarks a full request round trip.
func BenchmarkClient_ListProjects(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"infra"},{"id":2,"name":"apps"}]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithAPIToken("bench"))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.ListProjects(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
