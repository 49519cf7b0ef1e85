package semaphore

import (
	"context"
	"time"
)

// SemaphoreClient defines the interface for Semaphore API operations.
// Client implements this interface, enabling mocking for tests.
type SemaphoreClient interface {
	// ============================================================================
	// Authentication
	// ============================================================================

	Ping(ctx context.Context) error
	LoginMetadata(ctx context.Context) (*LoginMetadata, error)
	Login(ctx context.Context, username, password string) error
	UseAPIToken(ctx context.Context, token string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (*CurrentUser, error)
	IsAuthenticated() bool

	// ============================================================================
	// API Tokens
	// ============================================================================

	ListTokens(ctx context.Context) ([]Token, error)
	CreateToken(ctx context.Context) (*Token, error)
	DeleteToken(ctx context.Context, tokenID string) error
	PruneExpiredTokens(ctx context.Context) (int, error)

	// ============================================================================
	// Projects
	// ============================================================================

	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, projectID int) (*Project, error)
	CreateProject(ctx context.Context, project *ProjectCreate) (*Project, error)
	UpdateProject(ctx context.Context, projectID int, update *ProjectUpdate) error
	DeleteProject(ctx context.Context, projectID int) error
	BackupProject(ctx context.Context, projectID int) (ProjectBackup, error)
	GetProjectRole(ctx context.Context, projectID int) (*Permissions, error)
	ListProjectEvents(ctx context.Context, projectID int) ([]Event, error)

	// ============================================================================
	// Project Users
	// ============================================================================

	ListProjectUsers(ctx context.Context, projectID int, opts *ListProjectUsersOptions) ([]ProjectUser, error)
	AddProjectUser(ctx context.Context, projectID int, user *ProjectUserRequest) error
	UpdateProjectUser(ctx context.Context, projectID int, user *ProjectUserRequest) error
	RemoveProjectUser(ctx context.Context, projectID, userID int) error

	// ============================================================================
	// Integrations
	// ============================================================================

	ListIntegrations(ctx context.Context, projectID int) ([]Integration, error)
	CreateIntegration(ctx context.Context, projectID int, integration *IntegrationRequest) (*Integration, error)
	UpdateIntegration(ctx context.Context, projectID, integrationID int, integration *IntegrationRequest) error
	DeleteIntegration(ctx context.Context, projectID, integrationID int) error

	// ============================================================================
	// Keys, Repositories, Environments, Views, Inventories
	// ============================================================================

	ListKeys(ctx context.Context, projectID int, opts *ListKeysOptions) ([]Key, error)
	CreateKey(ctx context.Context, projectID int, key *KeyCreate) (*Key, error)
	DeleteKey(ctx context.Context, projectID, keyID int) error

	ListRepositories(ctx context.Context, projectID int) ([]Repository, error)
	CreateRepository(ctx context.Context, projectID int, repo *RepositoryCreate) (*Repository, error)
	DeleteRepository(ctx context.Context, projectID, repositoryID int) error

	ListEnvironments(ctx context.Context, projectID int) ([]Environment, error)
	CreateEnvironment(ctx context.Context, projectID int, env *EnvironmentCreate) (*Environment, error)
	DeleteEnvironment(ctx context.Context, projectID, environmentID int) error

	ListViews(ctx context.Context, projectID int) ([]View, error)
	CreateView(ctx context.Context, projectID int, view *ViewCreate) (*View, error)
	DeleteView(ctx context.Context, projectID, viewID int) error

	ListInventories(ctx context.Context, projectID int) ([]Inventory, error)
	CreateInventory(ctx context.Context, projectID int, inv *InventoryCreate) (*Inventory, error)
	DeleteInventory(ctx context.Context, projectID, inventoryID int) error

	// ============================================================================
	// Templates & Schedules
	// ============================================================================

	ListTemplates(ctx context.Context, projectID int) ([]Template, error)
	GetTemplate(ctx context.Context, projectID, templateID int) (*Template, error)
	CreateTemplate(ctx context.Context, projectID int, tpl *TemplateCreate) (*Template, error)
	DeleteTemplate(ctx context.Context, projectID, templateID int) error

	ListSchedules(ctx context.Context, projectID int) ([]Schedule, error)
	CreateSchedule(ctx context.Context, projectID int, schedule *ScheduleRequest) (*Schedule, error)
	UpdateSchedule(ctx context.Context, projectID, scheduleID int, schedule *ScheduleRequest) error
	DeleteSchedule(ctx context.Context, projectID, scheduleID int) error

	// ============================================================================
	// Tasks
	// ============================================================================

	ListTasks(ctx context.Context, projectID int) ([]Task, error)
	GetTask(ctx context.Context, projectID, taskID int) (*Task, error)
	RunTask(ctx context.Context, projectID int, run *TaskRun) (*Task, error)
	StopTask(ctx context.Context, projectID, taskID int) error
	DeleteTask(ctx context.Context, projectID, taskID int) error
	GetTaskOutput(ctx context.Context, projectID, taskID int) ([]TaskOutput, error)
	WaitForTask(ctx context.Context, projectID, taskID int, interval time.Duration) (*Task, error)
}

// Ensure Client implements SemaphoreClient at compile time.
var _ SemaphoreClient = (*Client)(nil)
