package semaphore

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Task statuses reported by the server.
const (
	TaskWaiting  TaskStatus = "waiting"
	TaskStarting TaskStatus = "starting"
	TaskRunning  TaskStatus = "running"
	TaskStopping TaskStatus = "stopping"
	TaskStopped  TaskStatus = "stopped"
	TaskSuccess  TaskStatus = "success"
	TaskError    TaskStatus = "error"
)

// Done reports whether the task has reached a terminal state.
func (s TaskStatus) Done() bool {
	switch s {
	case TaskStopped, TaskSuccess, TaskError:
		return true
	}
	return false
}

// DefaultPollInterval is the interval WaitForTask uses when given zero.
const DefaultPollInterval = 2 * time.Second

// Task is a single run of a template.
type Task struct {
	ID          int        `json:"id"`
	TemplateID  int        `json:"template_id"`
	ProjectID   int        `json:"project_id"`
	Status      TaskStatus `json:"status"`
	Debug       bool       `json:"debug"`
	DryRun      bool       `json:"dry_run,omitempty"`
	Playbook    string     `json:"playbook"`
	Environment string     `json:"environment"`
	Secret      string     `json:"secret,omitempty"`
	Limit       string     `json:"limit"`
	GitBranch   string     `json:"git_branch"`
	Message     string     `json:"message"`
	Arguments   string     `json:"arguments,omitempty"`
	CommitHash  string     `json:"commit_hash,omitempty"`
	Version     string     `json:"version,omitempty"`
	UserID      *int       `json:"user_id,omitempty"`
	Created     time.Time  `json:"created,omitzero"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
}

// Duration returns how long the task ran, or zero if it has not both started
// and ended.
func (t *Task) Duration() time.Duration {
	if t.Start == nil || t.End == nil {
		return 0
	}
	return t.End.Sub(*t.Start)
}

// TaskRun is the request body for starting a task from a template.
type TaskRun struct {
	TemplateID  int    `json:"template_id"`
	Debug       bool   `json:"debug"`
	DryRun      bool   `json:"dry_run"`
	Diff        bool   `json:"diff"`
	Playbook    string `json:"playbook,omitempty"`
	Environment string `json:"environment,omitempty"`
	Limit       string `json:"limit,omitempty"`
	GitBranch   string `json:"git_branch,omitempty"`
	Message     string `json:"message,omitempty"`
	Arguments   string `json:"arguments,omitempty"`
}

// Validate checks the request before it is sent.
func (r TaskRun) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TemplateID, validation.Required, validation.Min(1)),
		validation.Field(&r.Environment, validation.By(jsonObject)),
	)
}

// TaskOutput is one line of task output.
type TaskOutput struct {
	TaskID int       `json:"task_id"`
	Time   time.Time `json:"time"`
	Output string    `json:"output"`
}

// ListTasks returns the tasks of a project, newest first.
func (c *Client) ListTasks(ctx context.Context, projectID int) ([]Task, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "tasks"))
	if err != nil {
		return nil, err
	}
	tasks, err := unmarshalList[Task](data, "task list")
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ProjectID == 0 {
			tasks[i].ProjectID = projectID
		}
	}
	return tasks, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, projectID, taskID int) (*Task, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if taskID <= 0 {
		return nil, ErrInvalidTaskID
	}

	data, err := c.get(ctx, projectPath(projectID, "tasks", taskID))
	if err != nil {
		return nil, err
	}
	task, err := unmarshalResponse[Task](data, "task")
	if err != nil {
		return nil, err
	}
	if task.ProjectID == 0 {
		task.ProjectID = projectID
	}
	return task, nil
}

// RunTask starts a task from a template and returns it, usually still waiting.
func (c *Client) RunTask(ctx context.Context, projectID int, run *TaskRun) (*Task, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if run == nil {
		return nil, invalidRequest("task", errNilRequest)
	}
	if err := run.Validate(); err != nil {
		return nil, invalidRequest("task", err)
	}

	data, err := c.post(ctx, projectPath(projectID, "tasks"), run)
	if err != nil {
		return nil, err
	}
	task, err := unmarshalResponse[Task](data, "started task")
	if err != nil {
		return nil, err
	}
	if task.ProjectID == 0 {
		task.ProjectID = projectID
	}
	return task, nil
}

// StopTask asks the server to stop a running task.
func (c *Client) StopTask(ctx context.Context, projectID, taskID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if taskID <= 0 {
		return ErrInvalidTaskID
	}

	_, err := c.post(ctx, projectPath(projectID, "tasks", taskID, "stop"), nil)
	return err
}

// DeleteTask deletes a task and its output.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if taskID <= 0 {
		return ErrInvalidTaskID
	}

	_, err := c.delete(ctx, projectPath(projectID, "tasks", taskID))
	return err
}

// GetTaskOutput returns the output lines of a task. Older servers answer with
// a single object instead of an array.
func (c *Client) GetTaskOutput(ctx context.Context, projectID, taskID int) ([]TaskOutput, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if taskID <= 0 {
		return nil, ErrInvalidTaskID
	}

	data, err := c.get(ctx, projectPath(projectID, "tasks", taskID, "output"))
	if err != nil {
		return nil, err
	}
	lines, listErr := unmarshalList[TaskOutput](data, "task output")
	if listErr == nil {
		return lines, nil
	}
	line, err := unmarshalResponse[TaskOutput](data, "task output")
	if err != nil {
		return nil, listErr
	}
	return []TaskOutput{*line}, nil
}

// WaitForTask polls a task every interval until it reaches a terminal status
// or ctx is done. Status changes are logged through the client logger.
// The last observed task is returned along with ctx.Err() on cancellation.
func (c *Client) WaitForTask(ctx context.Context, projectID, taskID int, interval time.Duration) (*Task, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	task, err := c.GetTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	c.LogTaskStatus(ctx, projectID, taskID, task.Status)
	if task.Status.Done() {
		return task, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return task, ctx.Err()
		case <-ticker.C:
			next, err := c.GetTask(ctx, projectID, taskID)
			if err != nil {
				return task, err
			}
			if next.Status != task.Status {
				c.LogTaskStatus(ctx, projectID, taskID, next.Status)
			}
			task = next
			if task.Status.Done() {
				return task, nil
			}
		}
	}
}
