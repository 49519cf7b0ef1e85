// Package semaphore provides a Go client library for the Semaphore UI API.
//
// Semaphore UI runs Ansible, Terraform and shell tasks from templates. This
// library mirrors its REST API: projects, keys, repositories, environments,
// inventories, templates, schedules and tasks.
//
// # Authentication
//
// Log in with a username or email and password. The server answers with a
// session cookie that is attached to every later request:
//
//	client, err := semaphore.NewClient("https://semaphore.example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Login(ctx, "admin", "changeme"); err != nil {
//	    log.Fatal(err)
//	}
//
// Or use an API token created in the UI or with CreateToken:
//
//	client, err := semaphore.NewClient(host, semaphore.WithAPIToken(token))
//
// Sessions can outlive the process with a SessionStore:
//
//	store := semaphore.NewFileSessionStore("/home/me/.config/semaphore/session.json")
//	client, err := semaphore.NewClient(host, semaphore.WithSessionStore(store))
//
// # Basic Usage
//
// List projects and their templates:
//
//	projects, err := client.ListProjects(ctx)
//	for _, p := range projects {
//	    templates, err := client.ListTemplates(ctx, p.ID)
//	    ...
//	}
//
// Run a template and wait for the task to finish:
//
//	task, err := client.RunTask(ctx, projectID, &semaphore.TaskRun{TemplateID: 3})
//	task, err = client.WaitForTask(ctx, projectID, task.ID, 0)
//	fmt.Println(task.Status)
//
// # Retry Configuration
//
// Requests are sent once by default. Enable retry for transient failures:
//
//	client, err := semaphore.NewClient(host,
//	    semaphore.WithRetry(semaphore.DefaultRetryConfig()),
//	)
//
// # Error Handling
//
// Check for specific error types:
//
//	project, err := client.GetProject(ctx, id)
//	if err != nil {
//	    if semaphore.IsAuthError(err) {
//	        // Not logged in, or the session expired
//	    } else if semaphore.IsNotFound(err) {
//	        // Project doesn't exist
//	    } else if semaphore.IsDecodeError(err) {
//	        // Server answered with something that is not the expected JSON
//	    }
//	}
//
// For more information, see https://docs.semaphoreui.com/administration-guide/api/
package semaphore
