package semaphore

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// View is a tab grouping templates on the project dashboard.
type View struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
	ProjectID int    `json:"project_id"`
}

// ViewCreate is the request body for creating a view.
type ViewCreate struct {
	ProjectID int    `json:"project_id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
}

// Validate checks the request before it is sent.
func (v ViewCreate) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Title, validation.Required),
		validation.Field(&v.Position, validation.Min(0)),
	)
}

// ListViews returns the views of a project.
func (c *Client) ListViews(ctx context.Context, projectID int) ([]View, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "views"))
	if err != nil {
		return nil, err
	}
	return unmarshalList[View](data, "view list")
}

// CreateView creates a view.
func (c *Client) CreateView(ctx context.Context, projectID int, view *ViewCreate) (*View, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if view == nil {
		return nil, invalidRequest("view", errNilRequest)
	}
	if err := view.Validate(); err != nil {
		return nil, invalidRequest("view", err)
	}

	body := *view
	body.ProjectID = projectID
	data, err := c.post(ctx, projectPath(projectID, "views"), &body)
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[View](data, "created view")
}

// DeleteView deletes a view.
func (c *Client) DeleteView(ctx context.Context, projectID, viewID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if viewID <= 0 {
		return ErrInvalidViewID
	}

	_, err := c.delete(ctx, projectPath(projectID, "views", viewID))
	return err
}
