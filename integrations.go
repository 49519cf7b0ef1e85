package semaphore

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Integration binds an incoming webhook to a template.
type Integration struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ProjectID  int    `json:"project_id"`
	TemplateID int    `json:"template_id"`
	AuthMethod string `json:"auth_method,omitempty"`
	Searchable bool   `json:"searchable,omitempty"`
}

// IntegrationRequest is the request body for creating or updating an integration.
type IntegrationRequest struct {
	ProjectID  int    `json:"project_id"`
	Name       string `json:"name"`
	TemplateID int    `json:"template_id"`
}

// Validate checks the request before it is sent.
func (r IntegrationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.TemplateID, validation.Required, validation.Min(1)),
	)
}

// ListIntegrations returns the integrations of a project.
func (c *Client) ListIntegrations(ctx context.Context, projectID int) ([]Integration, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "integrations"))
	if err != nil {
		return nil, err
	}
	return unmarshalList[Integration](data, "integration list")
}

// CreateIntegration creates an integration in a project.
func (c *Client) CreateIntegration(ctx context.Context, projectID int, integration *IntegrationRequest) (*Integration, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if integration == nil {
		return nil, invalidRequest("integration", errNilRequest)
	}
	if err := integration.Validate(); err != nil {
		return nil, invalidRequest("integration", err)
	}

	body := *integration
	body.ProjectID = projectID
	data, err := c.post(ctx, projectPath(projectID, "integrations"), &body)
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[Integration](data, "created integration")
}

// UpdateIntegration updates an integration.
func (c *Client) UpdateIntegration(ctx context.Context, projectID, integrationID int, integration *IntegrationRequest) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if integrationID <= 0 {
		return ErrInvalidIntegrationID
	}
	if integration == nil {
		return invalidRequest("integration", errNilRequest)
	}
	if err := integration.Validate(); err != nil {
		return invalidRequest("integration", err)
	}

	body := *integration
	body.ProjectID = projectID
	_, err := c.put(ctx, projectPath(projectID, "integrations", integrationID), &body)
	return err
}

// DeleteIntegration deletes an integration.
func (c *Client) DeleteIntegration(ctx context.Context, projectID, integrationID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if integrationID <= 0 {
		return ErrInvalidIntegrationID
	}

	_, err := c.delete(ctx, projectPath(projectID, "integrations", integrationID))
	return err
}
