package semaphore

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProjects(t *testing.T) {
	api := newFakeAPI(t).on(http.MethodGet, "/projects", http.StatusOK,
		`[{"id":1,"name":"infra","created":"2024-05-01T10:00:00Z","max_parallel_tasks":2},{"id":2,"name":"apps"}]`)

	projects, err := api.client().ListProjects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "infra", projects[0].Name)
	assert.Equal(t, 2, projects[0].MaxParallelTasks)
	assert.Equal(t, 2024, projects[0].Created.Year())
	assert.Equal(t, "Bearer "+testToken, api.last().Header.Get("Authorization"))
}

func TestListProjects_Null(t *testing.T) {
	api := newFakeAPI(t).on(http.MethodGet, "/projects", http.StatusOK, `null`)

	projects, err := api.client().ListProjects(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestGetProject(t *testing.T) {
	api := newFakeAPI(t).
		on(http.MethodGet, "/project/1", http.StatusOK, `{"id":1,"name":"infra","alert":true,"alert_chat":"ops"}`).
		on(http.MethodGet, "/project/9", http.StatusNotFound, `{"error":"Project not found"}`)
	client := api.client()

	p, err := client.GetProject(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, p.Alert)
	assert.Equal(t, "ops", p.AlertChat)

	_, err = client.GetProject(context.Background(), 9)
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the body", func(t *testing.T) {
		api := newFakeAPI(t).on(http.MethodPost, "/projects", http.StatusCreated, `{"id":5,"name":"new"}`)

		p, err := api.client().CreateProject(ctx, &ProjectCreate{Name: "new", MaxParallelTasks: 3})

		require.NoError(t, err)
		assert.Equal(t, 5, p.ID)
		var body map[string]any
		api.last().decode(t, &body)
		assert.Equal(t, "new", body["name"])
		assert.Equal(t, float64(3), body["max_parallel_tasks"])
		assert.Equal(t, false, body["demo"])
		assert.Equal(t, "application/json", api.last().Header.Get("Content-Type"))
	})

	t.Run("validation", func(t *testing.T) {
		api := newFakeAPI(t)
		client := api.client()

		_, err := client.CreateProject(ctx, &ProjectCreate{})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), "name")

		_, err = client.CreateProject(ctx, &ProjectCreate{Name: "x", MaxParallelTasks: -1})
		assert.ErrorIs(t, err, ErrInvalidRequest)

		_, err = client.CreateProject(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidRequest)
		assert.Zero(t, api.count())
	})
}

func TestUpdateProject(t *testing.T) {
	api := newFakeAPI(t).on(http.MethodPut, "/project/4", http.StatusNoContent)

	err := api.client().UpdateProject(context.Background(), 4, &ProjectUpdate{Name: "renamed"})

	require.NoError(t, err)
	var body ProjectUpdate
	api.last().decode(t, &body)
	assert.Equal(t, 4, body.ID)
	assert.Equal(t, "renamed", body.Name)
}

func TestDeleteProject(t *testing.T) {
	api := newFakeAPI(t).on(http.MethodDelete, "/project/4", http.StatusNoContent)

	require.NoError(t, api.client().DeleteProject(context.Background(), 4))
	assert.Equal(t, http.MethodDelete, api.last().Method)
}

func TestBackupProject(t *testing.T) {
	ctx := context.Background()
	const doc = `{"meta":{"name":"infra"},"templates":[{"name":"deploy"}]}`

	t.Run("kept verbatim", func(t *testing.T) {
		api := newFakeAPI(t).on(http.MethodGet, "/project/1/backup", http.StatusOK, doc)

		backup, err := api.client().BackupProject(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, doc, string(backup))
		out, err := json.Marshal(backup)
		require.NoError(t, err)
		assert.JSONEq(t, doc, string(out))
	})

	t.Run("invalid document", func(t *testing.T) {
		api := newFakeAPI(t).on(http.MethodGet, "/project/1/backup", http.StatusOK, "<html>oops</html>")

		backup, err := api.client().BackupProject(ctx, 1)

		assert.Nil(t, backup)
		assert.True(t, IsDecodeError(err))
	})

	t.Run("empty backup marshals as null", func(t *testing.T) {
		out, err := json.Marshal(ProjectBackup(nil))
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	})
}

func TestGetProjectRole(t *testing.T) {
	api := newFakeAPI(t).on(http.MethodGet, "/project/1/role", http.StatusOK, `{"role":"owner","permissions":255}`)

	role, err := api.client().GetProjectRole(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "owner", role.Role)
	assert.Equal(t, 255, role.Permissions)
}

func TestListProjectEvents(t *testing.T) {
	api := newFakeAPI(t).on(http.MethodGet, "/project/1/events", http.StatusOK,
		`[{"project_id":1,"object_type":"task","object_id":3,"description":"Task ID 3 queued","created":"2024-05-01T10:00:00Z"}]`)

	events, err := api.client().ListProjectEvents(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "task", events[0].ObjectType)
	assert.Equal(t, "Task ID 3 queued", events[0].Description)
}

func TestProjectUsers(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(t).
		on(http.MethodGet, "/project/1/users", http.StatusOK, `[{"id":7,"username":"jo","name":"Jo","role":"manager"}]`).
		on(http.MethodPost, "/project/1/users", http.StatusNoContent).
		on(http.MethodPut, "/project/1/users/7", http.StatusNoContent).
		on(http.MethodDelete, "/project/1/users/7", http.StatusNoContent)
	client := api.client()

	users, err := client.ListProjectUsers(ctx, 1, &ListProjectUsersOptions{Sort: "name", Order: SortDesc})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, RoleManager, users[0].Role)
	assert.Equal(t, "order=desc&sort=name", api.last().Query)

	_, err = client.ListProjectUsers(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, api.last().Query)

	require.NoError(t, client.AddProjectUser(ctx, 1, &ProjectUserRequest{UserID: 7, Role: RoleGuest}))
	var added ProjectUserRequest
	api.last().decode(t, &added)
	assert.Equal(t, ProjectUserRequest{UserID: 7, Role: RoleGuest}, added)

	require.NoError(t, client.UpdateProjectUser(ctx, 1, &ProjectUserRequest{UserID: 7, Role: RoleOwner}))
	assert.Equal(t, "/api/project/1/users/7", api.last().Path)

	require.NoError(t, client.RemoveProjectUser(ctx, 1, 7))

	err = client.AddProjectUser(ctx, 1, &ProjectUserRequest{UserID: 7, Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestIntegrations(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(t).
		on(http.MethodGet, "/project/1/integrations", http.StatusOK, `[{"id":2,"name":"github push","template_id":4}]`).
		on(http.MethodPost, "/project/1/integrations", http.StatusCreated, `{"id":3,"name":"hook","project_id":1,"template_id":4}`).
		on(http.MethodPut, "/project/1/integrations/3", http.StatusNoContent).
		on(http.MethodDelete, "/project/1/integrations/3", http.StatusNoContent)
	client := api.client()

	list, err := client.ListIntegrations(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "github push", list[0].Name)

	created, err := client.CreateIntegration(ctx, 1, &IntegrationRequest{Name: "hook", TemplateID: 4})
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)
	var body IntegrationRequest
	api.last().decode(t, &body)
	assert.Equal(t, 1, body.ProjectID)

	require.NoError(t, client.UpdateIntegration(ctx, 1, 3, &IntegrationRequest{Name: "hook2", TemplateID: 4}))
	require.NoError(t, client.DeleteIntegration(ctx, 1, 3))

	_, err = client.CreateIntegration(ctx, 1, &IntegrationRequest{Name: "hook"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestViews(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(t).
		on(http.MethodGet, "/project/1/views", http.StatusOK, `[{"id":1,"title":"Deploy","position":0}]`).
		on(http.MethodPost, "/project/1/views", http.StatusCreated, `{"id":2,"title":"Ops","position":1,"project_id":1}`).
		on(http.MethodDelete, "/project/1/views/2", http.StatusNoContent)
	client := api.client()

	views, err := client.ListViews(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Deploy", views[0].Title)

	view, err := client.CreateView(ctx, 1, &ViewCreate{Title: "Ops", Position: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, view.ID)

	require.NoError(t, client.DeleteView(ctx, 1, 2))

	_, err = client.CreateView(ctx, 1, &ViewCreate{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
