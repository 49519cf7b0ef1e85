package semaphore

import (
	"encoding/json"
	"errors"
	"testing"
)

// FuzzTaskJSONParsing fuzzes task JSON unmarshaling.
// Run with: go test -fuzz=FuzzTaskJSONParsing
func FuzzTaskJSONParsing(f *testing.F) {
	f.Add([]byte(`{"id":1,"status":"running"}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"start":null,"end":"2024-05-01T10:00:00Z","user_id":null}`))
	f.Add([]byte(`{"created":"not a time"}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var task Task
		if err := json.Unmarshal(data, &task); err != nil {
			return
		}
		_ = task.Duration()
		_ = task.Status.Done()
	})
}

// FuzzTaskOutputParsing fuzzes the array-or-object task output decoding.
// Run with: go test -fuzz=FuzzTaskOutputParsing
func FuzzTaskOutputParsing(f *testing.F) {
	f.Add([]byte(`[{"task_id":1,"output":"ok"}]`))
	f.Add([]byte(`{"task_id":1,"output":"ok"}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`"text"`))

	f.Fuzz(func(t *testing.T, data []byte) {
		lines, err := unmarshalList[TaskOutput](data, "task output")
		if err == nil && lines == nil {
			t.Error("successful decode must not return a nil slice")
		}
		if err != nil && !IsDecodeError(err) {
			t.Errorf("unexpected error type: %T", err)
		}
	})
}

// FuzzErrorBody fuzzes APIError construction from arbitrary error bodies.
// Run with: go test -fuzz=FuzzErrorBody
func FuzzErrorBody(f *testing.F) {
	f.Add(400, []byte(`{"error":"bad"}`))
	f.Add(500, []byte(`{"message":"boom"}`))
	f.Add(404, []byte(``))
	f.Add(502, []byte(`<html>Bad Gateway</html>`))

	c := &Client{}
	f.Fuzz(func(t *testing.T, status int, body []byte) {
		err := c.handleError("GET", "/projects", status, body, "req")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("handleError returned %T", err)
		}
		if apiErr.StatusCode != status {
			t.Errorf("status = %d, want %d", apiErr.StatusCode, status)
		}
		_ = apiErr.Error()
	})
}

// FuzzValidation fuzzes the JSON object and cron rules.
// Run with: go test -fuzz=FuzzValidation
func FuzzValidation(f *testing.F) {
	f.Add(`{"a":1}`, "0 3 * * *")
	f.Add(`[]`, "@daily")
	f.Add(``, ``)
	f.Add(`{`, "* * *")

	f.Fuzz(func(t *testing.T, obj, cron string) {
		_ = TaskRun{TemplateID: 1, Environment: obj}.Validate()
		_ = ScheduleRequest{TemplateID: 1, CronFormat: cron}.Validate()
	})
}
