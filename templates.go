package semaphore

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TemplateType distinguishes plain task templates from build and deploy
// templates.
type TemplateType string

// Template types. The empty type is a plain task.
const (
	TemplateTask   TemplateType = ""
	TemplateBuild  TemplateType = "build"
	TemplateDeploy TemplateType = "deploy"
)

// SurveyVarValue is one choice of an enum survey variable.
type SurveyVarValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SurveyVar is a variable the user is prompted for when running a template.
type SurveyVar struct {
	Name        string           `json:"name"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Type        string           `json:"type,omitempty"`
	Required    bool             `json:"required,omitempty"`
	Values      []SurveyVarValue `json:"values,omitempty"`
}

// Template ties a playbook in a repository to an inventory and environment.
// Tasks are runs of a template.
type Template struct {
	ID                      int          `json:"id"`
	ProjectID               int          `json:"project_id"`
	RepositoryID            int          `json:"repository_id"`
	InventoryID             int          `json:"inventory_id"`
	EnvironmentID           int          `json:"environment_id"`
	ViewID                  int          `json:"view_id"`
	VaultKeyID              int          `json:"vault_key_id"`
	Name                    string       `json:"name"`
	Playbook                string       `json:"playbook"`
	Arguments               string       `json:"arguments"`
	Description             string       `json:"description"`
	AllowOverrideArgsInTask bool         `json:"allow_override_args_in_task"`
	SuppressSuccessAlerts   bool         `json:"suppress_success_alerts"`
	App                     string       `json:"app"`
	GitBranch               string       `json:"git_branch"`
	SurveyVars              []SurveyVar  `json:"survey_vars"`
	Type                    TemplateType `json:"type"`
	StartVersion            string       `json:"start_version"`
	BuildTemplateID         int          `json:"build_template_id"`
	Autorun                 bool         `json:"autorun"`
	LastTask                *Task        `json:"last_task,omitempty"`
	Tasks                   int          `json:"tasks"`
}

// TemplateCreate is the request body for creating a template.
type TemplateCreate struct {
	ProjectID               int          `json:"project_id"`
	Name                    string       `json:"name"`
	RepositoryID            int          `json:"repository_id"`
	InventoryID             int          `json:"inventory_id"`
	EnvironmentID           int          `json:"environment_id"`
	ViewID                  int          `json:"view_id,omitempty"`
	VaultKeyID              int          `json:"vault_key_id,omitempty"`
	Playbook                string       `json:"playbook"`
	Arguments               string       `json:"arguments,omitempty"`
	Description             string       `json:"description"`
	AllowOverrideArgsInTask bool         `json:"allow_override_args_in_task"`
	Limit                   string       `json:"limit,omitempty"`
	SuppressSuccessAlerts   bool         `json:"suppress_success_alerts"`
	App                     string       `json:"app,omitempty"`
	GitBranch               string       `json:"git_branch,omitempty"`
	SurveyVars              []SurveyVar  `json:"survey_vars"`
	Type                    TemplateType `json:"type"`
	StartVersion            string       `json:"start_version,omitempty"`
	BuildTemplateID         int          `json:"build_template_id,omitempty"`
	Autorun                 bool         `json:"autorun"`
}

// Validate checks the request before it is sent.
func (t TemplateCreate) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Name, validation.Required),
		validation.Field(&t.Playbook, validation.Required),
		validation.Field(&t.RepositoryID, validation.Required, validation.Min(1)),
		validation.Field(&t.InventoryID, validation.Required, validation.Min(1)),
		validation.Field(&t.EnvironmentID, validation.Required, validation.Min(1)),
		validation.Field(&t.Type, validation.In(TemplateTask, TemplateBuild, TemplateDeploy)),
		validation.Field(&t.BuildTemplateID, validation.When(t.Type == TemplateDeploy,
			validation.Required.Error("must be set for deploy templates"))),
	)
}

// ListTemplates returns the templates of a project.
func (c *Client) ListTemplates(ctx context.Context, projectID int) ([]Template, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "templates"))
	if err != nil {
		return nil, err
	}
	return unmarshalList[Template](data, "template list")
}

// GetTemplate returns a single template.
func (c *Client) GetTemplate(ctx context.Context, projectID, templateID int) (*Template, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if templateID <= 0 {
		return nil, ErrInvalidTemplateID
	}

	data, err := c.get(ctx, projectPath(projectID, "templates", templateID))
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[Template](data, "template")
}

// CreateTemplate creates a template.
func (c *Client) CreateTemplate(ctx context.Context, projectID int, tpl *TemplateCreate) (*Template, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if tpl == nil {
		return nil, invalidRequest("template", errNilRequest)
	}
	if err := tpl.Validate(); err != nil {
		return nil, invalidRequest("template", err)
	}

	body := *tpl
	body.ProjectID = projectID
	if body.SurveyVars == nil {
		body.SurveyVars = []SurveyVar{}
	}
	data, err := c.post(ctx, projectPath(projectID, "templates"), &body)
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[Template](data, "created template")
}

// DeleteTemplate deletes a template.
func (c *Client) DeleteTemplate(ctx context.Context, projectID, templateID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if templateID <= 0 {
		return ErrInvalidTemplateID
	}

	_, err := c.delete(ctx, projectPath(projectID, "templates", templateID))
	return err
}
