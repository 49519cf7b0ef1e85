package semaphore

import (
	"context"
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Project is a Semaphore project, the container for every other resource.
type Project struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Created          time.Time `json:"created"`
	Alert            bool      `json:"alert"`
	AlertChat        string    `json:"alert_chat"`
	MaxParallelTasks int       `json:"max_parallel_tasks"`
	Type             string    `json:"type"`
}

// ProjectCreate is the request body for creating a project.
type ProjectCreate struct {
	Name             string `json:"name"`
	Alert            bool   `json:"alert"`
	AlertChat        string `json:"alert_chat"`
	MaxParallelTasks int    `json:"max_parallel_tasks"`
	Type             string `json:"type,omitempty"`
	// Demo asks the server to seed the project with demo resources.
	Demo bool `json:"demo"`
}

// Validate checks the request before it is sent.
func (p ProjectCreate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.MaxParallelTasks, validation.Min(0)),
	)
}

// ProjectUpdate is the request body for updating a project.
type ProjectUpdate struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Alert            bool   `json:"alert"`
	AlertChat        string `json:"alert_chat"`
	MaxParallelTasks int    `json:"max_parallel_tasks"`
	Type             string `json:"type,omitempty"`
}

// Validate checks the request before it is sent.
func (p ProjectUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.MaxParallelTasks, validation.Min(0)),
	)
}

// ProjectBackup is the server's export of a project. Its schema is owned by
// the server, so it is kept verbatim and can be restored unchanged.
type ProjectBackup json.RawMessage

// MarshalJSON returns the backup document unchanged.
func (b ProjectBackup) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return b, nil
}

// Permissions is the current user's role within a project.
type Permissions struct {
	Role        string `json:"role"`
	Permissions int    `json:"permissions"`
}

// Event is an entry of a project's activity log.
type Event struct {
	ProjectID   int       `json:"project_id"`
	UserID      int       `json:"user_id"`
	ObjectID    int       `json:"object_id"`
	ObjectType  string    `json:"object_type"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}

// ListProjects returns all projects the current user belongs to.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	data, err := c.get(ctx, "/projects")
	if err != nil {
		return nil, err
	}
	return unmarshalList[Project](data, "project list")
}

// GetProject returns a single project by ID.
func (c *Client) GetProject(ctx context.Context, projectID int) (*Project, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID))
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[Project](data, "project")
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, project *ProjectCreate) (*Project, error) {
	if project == nil {
		return nil, invalidRequest("project", errNilRequest)
	}
	if err := project.Validate(); err != nil {
		return nil, invalidRequest("project", err)
	}

	data, err := c.post(ctx, "/projects", project)
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[Project](data, "created project")
}

// UpdateProject updates an existing project.
func (c *Client) UpdateProject(ctx context.Context, projectID int, update *ProjectUpdate) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if update == nil {
		return invalidRequest("project", errNilRequest)
	}
	if err := update.Validate(); err != nil {
		return invalidRequest("project", err)
	}

	body := *update
	body.ID = projectID
	_, err := c.put(ctx, projectPath(projectID), &body)
	return err
}

// DeleteProject deletes a project and everything in it.
func (c *Client) DeleteProject(ctx context.Context, projectID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}

	_, err := c.delete(ctx, projectPath(projectID))
	return err
}

// BackupProject exports a project.
func (c *Client) BackupProject(ctx context.Context, projectID int) (ProjectBackup, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "backup"))
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, &DecodeError{Resource: "project backup", Body: truncatePreview(data), Err: errInvalidJSON}
	}
	return ProjectBackup(data), nil
}

// GetProjectRole returns the current user's role in a project.
func (c *Client) GetProjectRole(ctx context.Context, projectID int) (*Permissions, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "role"))
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[Permissions](data, "project role")
}

// ListProjectEvents returns the activity log of a project.
func (c *Client) ListProjectEvents(ctx context.Context, projectID int) ([]Event, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "events"))
	if err != nil {
		return nil, err
	}
	return unmarshalList[Event](data, "event list")
}
