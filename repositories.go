package semaphore

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Repository is a git repository holding playbooks.
type Repository struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ProjectID int    `json:"project_id"`
	GitURL    string `json:"git_url"`
	GitBranch string `json:"git_branch"`
	SSHKeyID  int    `json:"ssh_key_id"`
}

// RepositoryCreate is the request body for creating a repository.
type RepositoryCreate struct {
	ProjectID int    `json:"project_id"`
	Name      string `json:"name"`
	GitURL    string `json:"git_url"`
	GitBranch string `json:"git_branch"`
	SSHKeyID  int    `json:"ssh_key_id"`
}

// Validate checks the request before it is sent.
func (r RepositoryCreate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.GitURL, validation.Required),
		validation.Field(&r.SSHKeyID, validation.Required, validation.Min(1)),
	)
}

// ListRepositories returns the repositories of a project.
func (c *Client) ListRepositories(ctx context.Context, projectID int) ([]Repository, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "repositories"))
	if err != nil {
		return nil, err
	}
	return unmarshalList[Repository](data, "repository list")
}

// CreateRepository creates a repository. The server sometimes answers with an
// empty body; the repository is then looked up by name.
func (c *Client) CreateRepository(ctx context.Context, projectID int, repo *RepositoryCreate) (*Repository, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if repo == nil {
		return nil, invalidRequest("repository", errNilRequest)
	}
	if err := repo.Validate(); err != nil {
		return nil, invalidRequest("repository", err)
	}

	body := *repo
	body.ProjectID = projectID
	data, err := c.post(ctx, projectPath(projectID, "repositories"), &body)
	if err != nil {
		return nil, err
	}
	if !isEmptyBody(data) {
		return unmarshalResponse[Repository](data, "created repository")
	}

	repos, err := c.ListRepositories(ctx, projectID)
	if err != nil {
		return nil, err
	}
	created, ok := findByName(repos, repo.Name, func(r Repository) string { return r.Name }, func(r Repository) int { return r.ID })
	if !ok {
		return nil, fmt.Errorf("%w: created repository %q not listed", ErrNotFound, repo.Name)
	}
	return created, nil
}

// DeleteRepository deletes a repository.
func (c *Client) DeleteRepository(ctx context.Context, projectID, repositoryID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if repositoryID <= 0 {
		return ErrInvalidRepositoryID
	}

	_, err := c.delete(ctx, projectPath(projectID, "repositories", repositoryID))
	return err
}
