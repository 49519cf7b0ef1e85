package semaphore

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Schedule runs a template on a cron expression.
type Schedule struct {
	ID           int    `json:"id"`
	CronFormat   string `json:"cron_format"`
	ProjectID    int    `json:"project_id"`
	TemplateID   int    `json:"template_id"`
	RepositoryID *int   `json:"repository_id"`
	Name         string `json:"name"`
	Active       bool   `json:"active"`
}

// ScheduleRequest is the request body for creating or updating a schedule.
type ScheduleRequest struct {
	ID         int    `json:"id"`
	ProjectID  int    `json:"project_id"`
	TemplateID int    `json:"template_id"`
	Name       string `json:"name"`
	CronFormat string `json:"cron_format"`
	Active     bool   `json:"active"`
}

var errCronFormat = errors.New("must be a five-field cron expression or an @-descriptor")

// cronExpression accepts "m h dom mon dow" and descriptors such as "@daily".
func cronExpression(value any) error {
	s, _ := value.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "@") {
		return nil
	}
	if len(strings.Fields(s)) != 5 {
		return errCronFormat
	}
	return nil
}

// Validate checks the request before it is sent.
func (s ScheduleRequest) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.TemplateID, validation.Required, validation.Min(1)),
		validation.Field(&s.CronFormat, validation.Required, validation.By(cronExpression)),
	)
}

// ListSchedules returns the schedules of a project.
func (c *Client) ListSchedules(ctx context.Context, projectID int) ([]Schedule, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	data, err := c.get(ctx, projectPath(projectID, "schedules"))
	if err != nil {
		return nil, err
	}
	return unmarshalList[Schedule](data, "schedule list")
}

// CreateSchedule creates a schedule.
func (c *Client) CreateSchedule(ctx context.Context, projectID int, schedule *ScheduleRequest) (*Schedule, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if schedule == nil {
		return nil, invalidRequest("schedule", errNilRequest)
	}
	if err := schedule.Validate(); err != nil {
		return nil, invalidRequest("schedule", err)
	}

	body := *schedule
	body.ID = 0
	body.ProjectID = projectID
	data, err := c.post(ctx, projectPath(projectID, "schedules"), &body)
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[Schedule](data, "created schedule")
}

// UpdateSchedule replaces a schedule.
func (c *Client) UpdateSchedule(ctx context.Context, projectID, scheduleID int, schedule *ScheduleRequest) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if scheduleID <= 0 {
		return ErrInvalidScheduleID
	}
	if schedule == nil {
		return invalidRequest("schedule", errNilRequest)
	}
	if err := schedule.Validate(); err != nil {
		return invalidRequest("schedule", err)
	}

	body := *schedule
	body.ID = scheduleID
	body.ProjectID = projectID
	_, err := c.put(ctx, projectPath(projectID, "schedules", scheduleID), &body)
	return err
}

// DeleteSchedule deletes a schedule.
func (c *Client) DeleteSchedule(ctx context.Context, projectID, scheduleID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	if scheduleID <= 0 {
		return ErrInvalidScheduleID
	}

	_, err := c.delete(ctx, projectPath(projectID, "schedules", scheduleID))
	return err
}
