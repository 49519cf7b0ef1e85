package semaphore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SecretType says how an environment secret is exposed to a task.
type SecretType string

// Environment secret types.
const (
	SecretTypeEnv SecretType = "env"
	SecretTypeVar SecretType = "var"
)

// EnvironmentSecret is a secret attached to an environment. Values are never returned.
type EnvironmentSecret struct {
	ID   int        `json:"id"`
	Name string     `json:"name"`
	Type SecretType `json:"type"`
}

// Environment holds the extra variables and environment variables passed to
// a task.
type Environment struct {
	ID        int                 `json:"id"`
	Name      string              `json:"name"`
	ProjectID int                 `json:"project_id"`
	Password  string              `json:"password,omitempty"`
	JSON      string              `json:"json"`
	Env       string              `json:"env"`
	Secrets   []EnvironmentSecret `json:"secrets"`
}

// EnvironmentSecretCreate is a secret sent with EnvironmentCreate.
type EnvironmentSecretCreate struct {
	Name      string     `json:"name"`
	Secret    string     `json:"secret"`
	Type      SecretType `json:"type"`
	Operation string     `json:"operation"`
}

// EnvironmentCreate is the request body for creating an environment.
// JSON holds extra variables and Env environment variables, both as JSON
// objects; empty strings are sent as "{}".
type EnvironmentCreate struct {
	ProjectID int                       `json:"project_id"`
	Name      string                    `json:"name"`
	Password  string                    `json:"password,omitempty"`
	JSON      string                    `json:"json"`
	Env       string                    `json:"env"`
	Secrets   []EnvironmentSecretCreate `json:"secrets"`
}

var errNotJSONObject = errors.New("must be a JSON object")

// jsonObject validates that a non-empty string holds a JSON object.
func jsonObject(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return errNotJSONObject
	}
	return nil
}

// Validate checks the request before it is sent.
func (e EnvironmentCreate) Validate() error {
	if err := validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.JSON, validation.By(jsonObject)),
		validation.Field(&e.Env, validation.By(jsonObject)),
	); err != nil {
		return err
	}
	for i, s := range e.Secrets {
		if err := validation.ValidateStruct(&s,
			validation.Field(&s.Name, validation.Required),
			validation.Field(&s.Type, validation.Required, validation.In(SecretTypeEnv, SecretTypeVar)),
		); err != nil {
			return fmt.Errorf("secrets[%d]: %w", i, err)
		}
	}
	return nil
}

// ListEnvironments returns the environments of a project.
func (c *Client) ListEnvironments(ctx context.Context, projectID int) ([]Environment, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "environment"))
	if err != nil {
		return nil, err
	}
	return unmarshalList[Environment](data, "environment list")
}

// CreateEnvironment creates an environment. The server sometimes answers with
// an empty body; the environment is then looked up by name.
func (c *Client) CreateEnvironment(ctx context.Context, projectID int, env *EnvironmentCreate) (*Environment, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if env == nil {
		return nil, invalidRequest("environment", errNilRequest)
	}
	if err := env.Validate(); err != nil {
		return nil, invalidRequest("environment", err)
	}

	body := *env
	body.ProjectID = projectID
	if body.JSON == "" {
		body.JSON = "{}"
	}
	if body.Env == "" {
		body.Env = "{}"
	}
	body.Secrets = make([]EnvironmentSecretCreate, len(env.Secrets))
	for i, s := range env.Secrets {
		if s.Operation == "" {
			s.Operation = "create"
		}
		body.Secrets[i] = s
	}

	data, err := c.post(ctx, projectPath(projectID, "environment"), &body)
	if err != nil {
		return nil, err
	}
	if !isEmptyBody(data) {
		return unmarshalResponse[Environment](data, "created environment")
	}

	envs, err := c.ListEnvironments(ctx, projectID)
	if err != nil {
		return nil, err
	}
	created, ok := findByName(envs, env.Name, func(e Environment) string { return e.Name }, func(e Environment) int { return e.ID })
	if !ok {
		return nil, fmt.Errorf("%w: created environment %q not listed", ErrNotFound, env.Name)
	}
	return created, nil
}

// DeleteEnvironment deletes an environment.
func (c *Client) DeleteEnvironment(ctx context.Context, projectID, environmentID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if environmentID <= 0 {
		return ErrInvalidEnvironmentID
	}

	_, err := c.delete(ctx, projectPath(projectID, "environment", environmentID))
	return err
}
