package semaphore

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ProjectRole is a user's role within a project.
type ProjectRole string

// Roles a project member can hold.
const (
	RoleOwner      ProjectRole = "owner"
	RoleManager    ProjectRole = "manager"
	RoleTaskRunner ProjectRole = "task_runner"
	RoleGuest      ProjectRole = "guest"
)

// ProjectUser is a member of a project.
type ProjectUser struct {
	ID       int         `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Role     ProjectRole `json:"role"`
}

// ProjectUserRequest is the request body for adding a member or changing a
// member's role.
type ProjectUserRequest struct {
	UserID int         `json:"user_id"`
	Role   ProjectRole `json:"role"`
}

// Validate checks the request before it is sent.
func (r ProjectUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, validation.Min(1)),
		validation.Field(&r.Role, validation.Required,
			validation.In(RoleOwner, RoleManager, RoleTaskRunner, RoleGuest)),
	)
}

// ListProjectUsersOptions controls the order of ListProjectUsers.
type ListProjectUsersOptions struct {
	// Sort is one of "name", "username", "email", "role".
	Sort  string
	Order SortOrder
}

// ListProjectUsers returns the members of a project. opts may be nil.
func (c *Client) ListProjectUsers(ctx context.Context, projectID int, opts *ListProjectUsersOptions) ([]ProjectUser, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	path := projectPath(projectID, "users")
	if opts != nil {
		path = withQuery(path, map[string]string{
			"sort":  opts.Sort,
			"order": string(opts.Order),
		})
	}

	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return unmarshalList[ProjectUser](data, "project user list")
}

// AddProjectUser adds an existing user to a project.
func (c *Client) AddProjectUser(ctx context.Context, projectID int, user *ProjectUserRequest) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if user == nil {
		return invalidRequest("project user", errNilRequest)
	}
	if err := user.Validate(); err != nil {
		return invalidRequest("project user", err)
	}

	_, err := c.post(ctx, projectPath(projectID, "users"), user)
	return err
}

// UpdateProjectUser changes a member's role.
func (c *Client) UpdateProjectUser(ctx context.Context, projectID int, user *ProjectUserRequest) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if user == nil {
		return invalidRequest("project user", errNilRequest)
	}
	if err := user.Validate(); err != nil {
		return invalidRequest("project user", err)
	}

	_, err := c.put(ctx, projectPath(projectID, "users", user.UserID), user)
	return err
}

// RemoveProjectUser removes a member from a project.
func (c *Client) RemoveProjectUser(ctx context.Context, projectID, userID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if userID <= 0 {
		return ErrInvalidUserID
	}

	_, err := c.delete(ctx, projectPath(projectID, "users", userID))
	return err
}
