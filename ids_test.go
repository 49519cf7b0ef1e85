package semaphore

import (
	"context"
	"errors"
	"testing"
)

func TestInvalidIDs(t *testing.T) {
	api := newFakeAPI(t)
	client := api.client()
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"GetProject", func() error { _, err := client.GetProject(ctx, 0); return err }, ErrInvalidProjectID},
		{"UpdateProject", func() error { return client.UpdateProject(ctx, -1, &ProjectUpdate{Name: "x"}) }, ErrInvalidProjectID},
		{"DeleteProject", func() error { return client.DeleteProject(ctx, 0) }, ErrInvalidProjectID},
		{"BackupProject", func() error { _, err := client.BackupProject(ctx, 0); return err }, ErrInvalidProjectID},
		{"GetProjectRole", func() error { _, err := client.GetProjectRole(ctx, 0); return err }, ErrInvalidProjectID},
		{"ListProjectEvents", func() error { _, err := client.ListProjectEvents(ctx, 0); return err }, ErrInvalidProjectID},
		{"ListProjectUsers", func() error { _, err := client.ListProjectUsers(ctx, 0, nil); return err }, ErrInvalidProjectID},
		{"RemoveProjectUser", func() error { return client.RemoveProjectUser(ctx, 1, 0) }, ErrInvalidUserID},
		{"ListIntegrations", func() error { _, err := client.ListIntegrations(ctx, 0); return err }, ErrInvalidProjectID},
		{"UpdateIntegration", func() error { return client.UpdateIntegration(ctx, 1, 0, &IntegrationRequest{}) }, ErrInvalidIntegrationID},
		{"DeleteIntegration", func() error { return client.DeleteIntegration(ctx, 1, 0) }, ErrInvalidIntegrationID},
		{"ListKeys", func() error { _, err := client.ListKeys(ctx, 0, nil); return err }, ErrInvalidProjectID},
		{"DeleteKey", func() error { return client.DeleteKey(ctx, 1, 0) }, ErrInvalidKeyID},
		{"ListRepositories", func() error { _, err := client.ListRepositories(ctx, 0); return err }, ErrInvalidProjectID},
		{"DeleteRepository", func() error { return client.DeleteRepository(ctx, 1, 0) }, ErrInvalidRepositoryID},
		{"ListEnvironments", func() error { _, err := client.ListEnvironments(ctx, 0); return err }, ErrInvalidProjectID},
		{"DeleteEnvironment", func() error { return client.DeleteEnvironment(ctx, 1, 0) }, ErrInvalidEnvironmentID},
		{"ListViews", func() error { _, err := client.ListViews(ctx, 0); return err }, ErrInvalidProjectID},
		{"DeleteView", func() error { return client.DeleteView(ctx, 1, 0) }, ErrInvalidViewID},
		{"ListInventories", func() error { _, err := client.ListInventories(ctx, 0); return err }, ErrInvalidProjectID},
		{"DeleteInventory", func() error { return client.DeleteInventory(ctx, 1, 0) }, ErrInvalidInventoryID},
		{"ListTemplates", func() error { _, err := client.ListTemplates(ctx, 0); return err }, ErrInvalidProjectID},
		{"GetTemplate", func() error { _, err := client.GetTemplate(ctx, 1, 0); return err }, ErrInvalidTemplateID},
		{"DeleteTemplate", func() error { return client.DeleteTemplate(ctx, 1, 0) }, ErrInvalidTemplateID},
		{"ListSchedules", func() error { _, err := client.ListSchedules(ctx, 0); return err }, ErrInvalidProjectID},
		{"UpdateSchedule", func() error { return client.UpdateSchedule(ctx, 1, 0, &ScheduleRequest{}) }, ErrInvalidScheduleID},
		{"DeleteSchedule", func() error { return client.DeleteSchedule(ctx, 1, 0) }, ErrInvalidScheduleID},
		{"ListTasks", func() error { _, err := client.ListTasks(ctx, 0); return err }, ErrInvalidProjectID},
		{"GetTask", func() error { _, err := client.GetTask(ctx, 1, 0); return err }, ErrInvalidTaskID},
		{"StopTask", func() error { return client.StopTask(ctx, 1, 0) }, ErrInvalidTaskID},
		{"DeleteTask", func() error { return client.DeleteTask(ctx, 0, 1) }, ErrInvalidProjectID},
		{"GetTaskOutput", func() error { _, err := client.GetTaskOutput(ctx, 1, -3); return err }, ErrInvalidTaskID},
		{"WaitForTask", func() error { _, err := client.WaitForTask(ctx, 1, 0, 0); return err }, ErrInvalidTaskID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if n := api.count(); n != 0 {
		t.Errorf("invalid IDs should not reach the server, got %d requests", n)
	}
}
