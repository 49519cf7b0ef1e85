package command

import (
	"fmt"
	"slices"
	"time"

	"github.com/araddon/dateparse"

	semaphore "github.com/tj-smith47/semaphore-go"
)

func requireID(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("-%s is required", name)
	}
	return nil
}

// ProjectsCommand lists projects.
type ProjectsCommand struct {
	*Meta
}

func (c *ProjectsCommand) Synopsis() string {
	return "List projects"
}

func (c *ProjectsCommand) Help() string {
	return `Usage: semaphore projects [options]

  Lists the projects the current user belongs to.` + c.Flags().Help()
}

func (c *ProjectsCommand) Flags() *FlagSet {
	return c.commonFlags("projects")
}

func (c *ProjectsCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}
	projects, err := client.ListProjects(ctx)
	if err != nil {
		return c.fail(err)
	}

	err = c.output(projects, func() *table {
		t := &table{header: []string{"ID", "NAME", "MAX PARALLEL", "CREATED"}}
		for _, p := range projects {
			t.add(p.ID, p.Name, p.MaxParallelTasks, p.Created)
		}
		return t
	})
	if err != nil {
		return c.fail(err)
	}
	return 0
}

// TemplatesCommand lists the templates of a project.
type TemplatesCommand struct {
	*Meta

	flagProject int
}

func (c *TemplatesCommand) Synopsis() string {
	return "List the templates of a project"
}

func (c *TemplatesCommand) Help() string {
	return `Usage: semaphore templates -project=<id> [options]` + c.Flags().Help()
}

func (c *TemplatesCommand) Flags() *FlagSet {
	f := c.commonFlags("templates")
	f.IntVar(&c.flagProject, "project", 0, "(Required) Project ID")
	return f
}

func (c *TemplatesCommand) Run(args []string) int {
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
	templates, err := client.ListTemplates(ctx, c.flagProject)
	if err != nil {
		return c.fail(err)
	}

	err = c.output(templates, func() *table {
		t := &table{header: []string{"ID", "NAME", "PLAYBOOK", "APP", "LAST STATUS"}}
		for _, tpl := range templates {
			last := ""
			if tpl.LastTask != nil {
				last = string(tpl.LastTask.Status)
			}
			t.add(tpl.ID, tpl.Name, tpl.Playbook, tpl.App, last)
		}
		return t
	})
	if err != nil {
		return c.fail(err)
	}
	return 0
}

// EventsCommand prints a project's activity log.
type EventsCommand struct {
	*Meta

	flagProject int
	flagSince   string
}

func (c *EventsCommand) Synopsis() string {
	return "Show the activity log of a project"
}

func (c *EventsCommand) Help() string {
	return `Usage: semaphore events -project=<id> [options]

  Prints project events, oldest first. -since accepts most date formats,
  e.g. "2024-03-01", "03/01/2024 10:00" or an RFC 3339 timestamp.` + c.Flags().Help()
}

func (c *EventsCommand) Flags() *FlagSet {
	f := c.commonFlags("events")
	f.IntVar(&c.flagProject, "project", 0, "(Required) Project ID")
	f.StringVar(&c.flagSince, "since", "", "Only show events created at or after this time")
	return f
}

func (c *EventsCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	if err := requireID("project", c.flagProject); err != nil {
		return c.fail(err)
	}

	var since time.Time
	if c.flagSince != "" {
		t, err := dateparse.ParseLocal(c.flagSince)
		if err != nil {
			return c.fail(fmt.Errorf("invalid -since: %w", err))
		}
		since = t
	}

	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}
	events, err := client.ListProjectEvents(ctx, c.flagProject)
	if err != nil {
		return c.fail(err)
	}
	events = filterEvents(events, since)

	err = c.output(events, func() *table {
		t := &table{header: []string{"CREATED", "TYPE", "OBJECT", "DESCRIPTION"}}
		for _, e := range events {
			t.add(e.Created, e.ObjectType, e.ObjectID, e.Description)
		}
		return t
	})
	if err != nil {
		return c.fail(err)
	}
	return 0
}

// filterEvents drops events before since and sorts the rest oldest first.
func filterEvents(events []semaphore.Event, since time.Time) []semaphore.Event {
	out := make([]semaphore.Event, 0, len(events))
	for _, e := range events {
		if !since.IsZero() && e.Created.Before(since) {
			continue
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b semaphore.Event) int {
		return a.Created.Compare(b.Created)
	})
	return out
}
