package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	semaphore "github.com/tj-smith47/semaphore-go"
)

// TasksCommand lists the tasks of a project.
type TasksCommand struct {
	*Meta

	flagProject int
	flagLimit   int
}

func (c *TasksCommand) Synopsis() string {
	return "List the tasks of a project"
}

func (c *TasksCommand) Help() string {
	return `Usage: semaphore tasks -project=<id> [options]

  Lists tasks, newest first.` + c.Flags().Help()
}

func (c *TasksCommand) Flags() *FlagSet {
	f := c.commonFlags("tasks")
	f.IntVar(&c.flagProject, "project", 0, "(Required) Project ID")
	f.IntVar(&c.flagLimit, "limit", 20, "Maximum number of tasks to show, 0 for all")
	return f
}

func (c *TasksCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	if err := requireID("project", c.flagProject); err != nil {
		return c.fail(err)
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}
	tasks, err := client.ListTasks(ctx, c.flagProject)
	if err != nil {
		return c.fail(err)
	}
	if c.flagLimit > 0 && len(tasks) > c.flagLimit {
		tasks = tasks[:c.flagLimit]
	}

	err = c.output(tasks, func() *table {
		t := &table{header: []string{"ID", "TEMPLATE", "STATUS", "MESSAGE", "CREATED", "DURATION"}}
		for _, task := range tasks {
			t.add(task.ID, task.TemplateID, string(task.Status), task.Message, task.Created,
				task.Duration().Round(time.Second))
		}
		return t
	})
	if err != nil {
		return c.fail(err)
	}
	return 0
}

// TaskOutputCommand prints the output of a task.
type TaskOutputCommand struct {
	*Meta

	flagProject int
	flagTask    int
}

func (c *TaskOutputCommand) Synopsis() string {
	return "Print the output of a task"
}

func (c *TaskOutputCommand) Help() string {
	return `Usage: semaphore task-output -project=<id> -task=<id> [options]` + c.Flags().Help()
}

func (c *TaskOutputCommand) Flags() *FlagSet {
	f := c.commonFlags("task-output")
	f.IntVar(&c.flagProject, "project", 0, "(Required) Project ID")
	f.IntVar(&c.flagTask, "task", 0, "(Required) Task ID")
	return f
}

func (c *TaskOutputCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	if err := errors.Join(requireID("project", c.flagProject), requireID("task", c.flagTask)); err != nil {
		return c.fail(err)
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}
	lines, err := client.GetTaskOutput(ctx, c.flagProject, c.flagTask)
	if err != nil {
		return c.fail(err)
	}

	if c.flagFormat != formatTable {
		if err := c.output(lines, nil); err != nil {
			return c.fail(err)
		}
		return 0
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Output)
		b.WriteByte('\n')
	}
	c.UI.Output(strings.TrimRight(b.String(), "\n"))
	return 0
}

// RunCommand starts a task from a template.
type RunCommand struct {
	*Meta

	flagProject  int
	flagTemplate int
	flagMessage  string
	flagBranch   string
	flagLimit    string
	flagEnv      string
	flagDebug    bool
	flagDryRun   bool
	flagWait     bool
	flagInterval time.Duration
}

func (c *RunCommand) Synopsis() string {
	return "Run a template"
}

func (c *RunCommand) Help() string {
	return `Usage: semaphore run -project=<id> -template=<id> [options]

  Starts a task from a template. With -wait the command blocks until the task
  finishes and exits non-zero unless it succeeded.` + c.Flags().Help()
}

func (c *RunCommand) Flags() *FlagSet {
	f := c.commonFlags("run")
	f.IntVar(&c.flagProject, "project", 0, "(Required) Project ID")
	f.IntVar(&c.flagTemplate, "template", 0, "(Required) Template ID")
	f.StringVar(&c.flagMessage, "message", "", "Message shown with the task")
	f.StringVar(&c.flagBranch, "branch", "", "Git branch overriding the template's")
	f.StringVar(&c.flagLimit, "limit", "", "Ansible host limit")
	f.StringVar(&c.flagEnv, "env", "", "Extra variables as a JSON object")
	f.BoolVar(&c.flagDebug, "debug", false, "Run with verbose output")
	f.BoolVar(&c.flagDryRun, "dry-run", false, "Run in check mode")
	f.BoolVar(&c.flagWait, "wait", false, "Wait for the task to finish")
	f.DurationVar(&c.flagInterval, "interval", semaphore.DefaultPollInterval, "Poll interval for -wait")
	return f
}

func (c *RunCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	if err := errors.Join(requireID("project", c.flagProject), requireID("template", c.flagTemplate)); err != nil {
		return c.fail(err)
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}

	task, err := client.RunTask(ctx, c.flagProject, &semaphore.TaskRun{
		TemplateID:  c.flagTemplate,
		Message:     c.flagMessage,
		GitBranch:   c.flagBranch,
		Limit:       c.flagLimit,
		Environment: c.flagEnv,
		Debug:       c.flagDebug,
		DryRun:      c.flagDryRun,
	})
	if err != nil {
		return c.fail(err)
	}
	c.Log.Info("task started", "project", c.flagProject, "task", task.ID)

	if c.flagWait {
		task, err = client.WaitForTask(ctx, c.flagProject, task.ID, c.flagInterval)
		if err != nil {
			return c.fail(err)
		}
	}

	err = c.output(task, func() *table {
		t := &table{header: []string{"ID", "TEMPLATE", "STATUS", "DURATION"}}
		t.add(task.ID, task.TemplateID, string(task.Status), task.Duration().Round(time.Second))
		return t
	})
	if err != nil {
		return c.fail(err)
	}
	if c.flagWait && task.Status != semaphore.TaskSuccess {
		c.UI.Error(fmt.Sprintf("Task %d finished with status %s", task.ID, task.Status))
		return 1
	}
	return 0
}

// StopCommand stops a running task.
type StopCommand struct {
	*Meta

	flagProject int
	flagTask    int
}

func (c *StopCommand) Synopsis() string {
	return "Stop a running task"
}

func (c *StopCommand) Help() string {
	return `Usage: semaphore stop -project=<id> -task=<id> [options]` + c.Flags().Help()
}

func (c *StopCommand) Flags() *FlagSet {
	f := c.commonFlags("stop")
	f.IntVar(&c.flagProject, "project", 0, "(Required) Project ID")
	f.IntVar(&c.flagTask, "task", 0, "(Required) Task ID")
	return f
}

func (c *StopCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	if err := errors.Join(requireID("project", c.flagProject), requireID("task", c.flagTask)); err != nil {
		return c.fail(err)
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}
	if err := client.StopTask(ctx, c.flagProject, c.flagTask); err != nil {
		return c.fail(err)
	}
	c.UI.Info(fmt.Sprintf("Stop requested for task %d", c.flagTask))
	return 0
}
